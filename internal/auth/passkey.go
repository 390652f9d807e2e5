package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/jmoiron/sqlx"

	"github.com/evcraddock/realty/internal/db"
	"github.com/evcraddock/realty/internal/user"
)

// ErrPasskeyNotFound is returned when a credential does not exist for the user.
var ErrPasskeyNotFound = errors.New("passkey not found")

// PasskeyUser implements webauthn.User for an account.
type PasskeyUser struct {
	user        *user.User
	credentials []webauthn.Credential
}

// NewPasskeyUser creates a PasskeyUser for u.
func NewPasskeyUser(u *user.User, credentials []webauthn.Credential) *PasskeyUser {
	return &PasskeyUser{user: u, credentials: credentials}
}

// WebAuthnID returns the decimal user ID. It is the user handle returned
// by authenticators during discoverable login.
func (u *PasskeyUser) WebAuthnID() []byte {
	return []byte(strconv.FormatInt(u.user.ID, 10))
}

// WebAuthnName returns the email.
func (u *PasskeyUser) WebAuthnName() string { return u.user.Email }

// WebAuthnDisplayName returns the account name, falling back to the email.
func (u *PasskeyUser) WebAuthnDisplayName() string {
	if u.user.Name != "" {
		return u.user.Name
	}
	return u.user.Email
}

// WebAuthnCredentials returns the stored credentials.
func (u *PasskeyUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }

// User returns the account behind the passkey user.
func (u *PasskeyUser) User() *user.User { return u.user }

// UserIDFromHandle parses a WebAuthn user handle back into a user ID.
func UserIDFromHandle(handle []byte) (int64, error) {
	id, err := strconv.ParseInt(string(handle), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user handle %q", handle)
	}
	return id, nil
}

// PasskeyStore manages passkey credentials.
type PasskeyStore struct {
	db *sqlx.DB
}

// NewPasskeyStore creates a passkey store.
func NewPasskeyStore(db *sqlx.DB) *PasskeyStore {
	return &PasskeyStore{db: db}
}

// StoredCredential is a passkey credential with metadata.
type StoredCredential struct {
	ID         string              `db:"id" json:"id"`
	UserID     int64               `db:"user_id" json:"user_id"`
	Name       string              `db:"name" json:"name"`
	CreatedAt  time.Time           `db:"created_at" json:"created_at"`
	Credential webauthn.Credential `db:"-" json:"-"`
}

// credentialRow is a passkey_credentials row with the credential still
// in its stored JSON form.
type credentialRow struct {
	StoredCredential
	Data string `db:"credential"`
}

// Save stores a new passkey credential for userID.
func (s *PasskeyStore) Save(ctx context.Context, userID int64, name string, cred *webauthn.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}

	id := fmt.Sprintf("%x", cred.ID)
	if _, err := s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO passkey_credentials (id, user_id, name, credential) VALUES (?, ?, ?, ?)"),
		id, userID, name, string(data),
	); err != nil {
		return fmt.Errorf("storing credential: %w", db.Classify(err))
	}

	return nil
}

// Update replaces the stored credential data, e.g. after the sign count changes.
func (s *PasskeyStore) Update(ctx context.Context, userID int64, cred *webauthn.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE passkey_credentials SET credential = ? WHERE id = ? AND user_id = ?"),
		string(data), fmt.Sprintf("%x", cred.ID), userID,
	); err != nil {
		return fmt.Errorf("updating credential: %w", db.Classify(err))
	}

	return nil
}

// ListByUser returns all credentials for userID.
func (s *PasskeyStore) ListByUser(ctx context.Context, userID int64) ([]StoredCredential, error) {
	var rows []credentialRow
	if err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind("SELECT id, user_id, name, credential, created_at FROM passkey_credentials WHERE user_id = ? ORDER BY created_at, id"),
		userID,
	); err != nil {
		return nil, fmt.Errorf("querying credentials: %w", db.Classify(err))
	}

	result := make([]StoredCredential, 0, len(rows))
	for _, row := range rows {
		sc := row.StoredCredential
		if err := json.Unmarshal([]byte(row.Data), &sc.Credential); err != nil {
			return nil, fmt.Errorf("unmarshaling credential %s: %w", sc.ID, err)
		}
		result = append(result, sc)
	}

	return result, nil
}

// WebAuthnCredentials returns just the webauthn.Credential slice for userID.
func (s *PasskeyStore) WebAuthnCredentials(ctx context.Context, userID int64) ([]webauthn.Credential, error) {
	stored, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	creds := make([]webauthn.Credential, len(stored))
	for i, sc := range stored {
		creds[i] = sc.Credential
	}

	return creds, nil
}

// Delete removes a credential by ID if it belongs to userID.
func (s *PasskeyStore) Delete(ctx context.Context, id string, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM passkey_credentials WHERE id = ? AND user_id = ?"),
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", db.Classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrPasskeyNotFound
	}

	return nil
}
