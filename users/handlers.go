package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/userservice-go/apperror"
	"github.com/user/userservice-go/auth"
	"github.com/user/userservice-go/store"
)

// Handlers provides HTTP handlers for profile management. Every handler
// receives the authenticated identity as an argument, supplied by the auth
// middleware.
type Handlers struct {
	service *Service
}

// NewHandlers creates new user profile Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// targetID extracts the {id} path parameter.
func targetID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperror.NewNotFoundError("user not found", err)
	}
	return id, nil
}

// HandleGetCurrentUser godoc
// @Summary Get current user's profile
// @Description Retrieves the profile of the account the bearer token belongs to.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.UserResponse "Current user profile"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Missing, invalid, or expired token"
// @Router /api/users/me [get]
func (h *Handlers) HandleGetCurrentUser() auth.AuthenticatedHandler {
	return func(ident auth.Identity, w http.ResponseWriter, r *http.Request) {
		user, err := h.service.GetSelf(r.Context(), ident.AccountID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// HandleGetUser godoc
// @Summary Get a user by id
// @Description Retrieves an account by id. Callers may only access their own account.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} users.UserResponse "User profile"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not your account"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /api/users/{id} [get]
func (h *Handlers) HandleGetUser() auth.AuthenticatedHandler {
	return func(ident auth.Identity, w http.ResponseWriter, r *http.Request) {
		id, err := targetID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		user, err := h.service.GetByID(r.Context(), ident.AccountID, id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, UserResponse{User: user})
	}
}

// HandleUpdateUser godoc
// @Summary Update a user's profile
// @Description Applies a partial update (email, first name, last name) to the caller's own account.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param updateBody body users.UpdateUserProfileRequest true "Fields to update"
// @Success 200 {object} users.UpdateUserResponse "User updated successfully"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not your account"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Email already exists"
// @Router /api/users/{id} [put]
func (h *Handlers) HandleUpdateUser() auth.AuthenticatedHandler {
	return func(ident auth.Identity, w http.ResponseWriter, r *http.Request) {
		id, err := targetID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req UpdateUserProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		user, err := h.service.UpdateProfile(r.Context(), ident.AccountID, id, &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, UpdateUserResponse{
			Message: "User updated successfully",
			User:    user,
		})
	}
}

// HandleDeactivateUser godoc
// @Summary Deactivate a user (soft delete)
// @Description Marks the caller's own account inactive. The record and its unique identifiers persist; deactivating twice succeeds.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} users.MessageResponse "User deactivated successfully"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not your account"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /api/users/{id} [delete]
func (h *Handlers) HandleDeactivateUser() auth.AuthenticatedHandler {
	return func(ident auth.Identity, w http.ResponseWriter, r *http.Request) {
		id, err := targetID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		if err := h.service.Deactivate(r.Context(), ident.AccountID, id); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User deactivated successfully"})
	}
}

// HandleListUsers godoc
// @Summary List active users
// @Description Lists every active account. Requires authentication but no per-record authorization.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.ListUsersResponse "Active users and their count"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /api/users [get]
func (h *Handlers) HandleListUsers() auth.AuthenticatedHandler {
	return func(ident auth.Identity, w http.ResponseWriter, r *http.Request) {
		accounts, err := h.service.ListActive(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if accounts == nil {
			accounts = []store.Account{}
		}
		auth.WriteJSON(w, http.StatusOK, ListUsersResponse{
			Users: accounts,
			Total: len(accounts),
		})
	}
}
