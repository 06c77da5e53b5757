package auth

import (
	"github.com/user/userservice-go/apperror"
)

// Authorize applies the self-only access policy: a caller may act on a target
// account if and only if it is their own. The decision is pure — it consults
// no storage and there is no admin override.
func Authorize(callerID, targetID int) error {
	if callerID != targetID {
		return apperror.NewForbiddenError("you may only access your own account", nil)
	}
	return nil
}
