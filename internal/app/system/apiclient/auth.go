// internal/app/system/apiclient/auth.go
package apiclient

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Login exchanges staff credentials for an API token.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.LoginResponse
	if err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", body, &out); err != nil {
		return models.LoginResponse{}, err
	}
	if out.Token == "" {
		return models.LoginResponse{}, &RequestError{
			Op:      "auth.login",
			Status:  http.StatusOK,
			Message: "The club server did not return a session token.",
		}
	}
	return out, nil
}

// Me returns the staff account behind the client's token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, "auth.me", http.MethodGet, "/api/me", nil, &out)
	return out, err
}

// ChangePassword updates the signed-in account's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return c.do(ctx, "auth.change_password", http.MethodPost, "/api/me/change-password", body, nil)
}
