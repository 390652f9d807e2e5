package auth

import "github.com/evcraddock/realty/internal/apperr"

// AdminOnly allows admins.
func AdminOnly(caller Identity) *apperr.Error {
	if !caller.IsAdmin() {
		return apperr.New(apperr.Forbidden, "Access denied. Admin only.")
	}
	return nil
}

// CanUpdateProperty allows admins and the recorded owner.
func CanUpdateProperty(caller Identity, ownerID int64) *apperr.Error {
	if caller.IsAdmin() || caller.ID == ownerID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "You can only update your own properties")
}

// CanReadUser allows admins and the user themself.
func CanReadUser(caller Identity, targetID int64) *apperr.Error {
	if caller.IsAdmin() || caller.ID == targetID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "Access denied")
}

// CanDeleteUser allows admins to delete anyone but themselves.
func CanDeleteUser(caller Identity, targetID int64) *apperr.Error {
	if err := AdminOnly(caller); err != nil {
		return err
	}
	if caller.ID == targetID {
		return apperr.New(apperr.InvalidOperation, "You cannot delete your own account")
	}
	return nil
}
