package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorKind classifies a storage failure independently of the engine.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindUnique
	KindCheck
	KindForeignKey
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindCheck:
		return "check"
	case KindForeignKey:
		return "foreign_key"
	}
	return "other"
}

// StorageError is a write rejected by the store. Constraint holds the
// constraint identifier as reported by the engine: a name such as
// "properties_price_check", or for SQLite unique failures the column list
// such as "users.email".
type StorageError struct {
	Kind       ErrorKind
	Constraint string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint %s violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// Classify converts driver errors into *StorageError. Nil stays nil and
// errors that are not constraint failures are returned as KindOther.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var existing *StorageError
	if errors.As(err, &existing) {
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return classifySQLite(sqliteErr, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyPostgres(pqErr, err)
	}

	return &StorageError{Kind: KindOther, Err: err}
}

func classifySQLite(sqliteErr sqlite3.Error, err error) *StorageError {
	kind := KindOther
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		kind = KindUnique
	case sqlite3.ErrConstraintCheck:
		kind = KindCheck
	case sqlite3.ErrConstraintForeignKey:
		kind = KindForeignKey
	}

	// Messages look like "CHECK constraint failed: properties_price_check"
	// or "UNIQUE constraint failed: users.email".
	constraint := ""
	if _, after, found := strings.Cut(sqliteErr.Error(), "constraint failed: "); found {
		constraint = strings.TrimSpace(after)
	}

	return &StorageError{Kind: kind, Constraint: constraint, Err: err}
}

func classifyPostgres(pqErr *pq.Error, err error) *StorageError {
	kind := KindOther
	switch pqErr.Code {
	case "23505":
		kind = KindUnique
	case "23514":
		kind = KindCheck
	case "23503":
		kind = KindForeignKey
	}
	return &StorageError{Kind: kind, Constraint: pqErr.Constraint, Err: err}
}

// IsKind reports whether err is a StorageError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == kind
}

// ConstraintField extracts the column name from a check constraint named
// "<table>_<field>_check". Unknown shapes are returned unchanged.
func ConstraintField(constraint, table string) string {
	field := strings.TrimPrefix(constraint, table+"_")
	field = strings.TrimSuffix(field, "_check")
	return field
}
