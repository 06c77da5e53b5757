package users

import "github.com/user/userservice-go/store"

// UserResponse wraps a single account for profile endpoints.
type UserResponse struct {
	User *store.Account `json:"user"`
}

// UpdateUserResponse is returned after a successful profile update.
type UpdateUserResponse struct {
	Message string         `json:"message" example:"User updated successfully"`
	User    *store.Account `json:"user"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message" example:"User deactivated successfully"`
}

// ListUsersResponse carries all active accounts plus their count.
type ListUsersResponse struct {
	Users []store.Account `json:"users"`
	Total int             `json:"total" example:"42"`
}

// UpdateUserProfileRequest represents a partial profile update. Pointer
// fields distinguish "not provided" (nil, leave untouched) from "set to this
// value", including the empty string. Username and password cannot be
// changed through this request.
type UpdateUserProfileRequest struct {
	Email     *string `json:"email,omitempty" example:"john.doe.new@example.com"`
	FirstName *string `json:"first_name,omitempty" example:"John"`
	LastName  *string `json:"last_name,omitempty" example:"Doe"`
}
