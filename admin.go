package adminfront

import (
	"context"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Admin exposes the admin-only user-management operations. Every method is
// a single authorized call through the gateway; locally detectable bad
// input fails fast with a validation error and zero network traffic.
type Admin struct {
	gw     *Gateway
	logger Logger
}

func NewAdmin(gw *Gateway) *Admin {
	return &Admin{gw: gw, logger: defLogger{}}
}

func (a *Admin) WithLogger(logger Logger) *Admin {
	a.logger = logger
	return a
}

type userRow struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	LastLogin *apiTime `json:"last_login"`
}

// ListUsers fetches every user record. An empty backend answer is a valid
// zero-user listing, not an error.
func (a *Admin) ListUsers(ctx context.Context) ([]UserRecord, error) {
	rows := []userRow{}
	if err := a.gw.doJSON(ctx, http.MethodGet, "/admin/users", nil, &rows); err != nil {
		return nil, err
	}

	users := make([]UserRecord, 0, len(rows))
	for _, row := range rows {
		users = append(users, UserRecord{
			ID:          row.ID,
			Username:    row.Username,
			LastLoginAt: row.LastLogin.timePtr(),
		})
	}
	return users, nil
}

// RegisterPayload carries the fields for creating a user.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Validate runs the local validation rules. Password strength policy is
// backend-owned; only presence is checked here.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Password, validation.Required),
	)
}

// Register creates a new user account.
func (a *Admin) Register(ctx context.Context, username, password string, isAdmin bool) error {
	payload := RegisterPayload{Username: username, Password: password, IsAdmin: isAdmin}
	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := a.gw.doJSON(ctx, http.MethodPost, "/admin/register", payload, nil); err != nil {
		return err
	}

	a.logger.Info("user registered", "username", username, "is_admin", isAdmin)
	return nil
}

// DeleteUser removes the user with the given id.
func (a *Admin) DeleteUser(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return a.gw.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/delete_user/%d", id), nil, nil)
}

// ResetPassword blanks the user's password. The backend flags the account
// as reset-required on its next login attempt.
func (a *Admin) ResetPassword(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return a.gw.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/reset_password/%d", id), nil, nil)
}

// ChangePassword sets a new password for the user with the given id.
func (a *Admin) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := validation.Validate(newPassword, validation.Required); err != nil {
		return validationError(fmt.Errorf("new_password: %w", err))
	}

	body := map[string]string{"new_password": newPassword}
	return a.gw.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/change_password/%d", id), body, nil)
}

func validateID(id int64) error {
	if id <= 0 {
		return validationError(fmt.Errorf("id: must be a positive user id, got %d", id))
	}
	return nil
}
