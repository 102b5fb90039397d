// internal/app/system/auth/client.go
package auth

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
)

// APIClient returns base bound to the signed-in user's API token. Without a
// session user it returns base unchanged, which the API answers with 401.
func APIClient(r *http.Request, base *apiclient.Client) *apiclient.Client {
	if u, ok := CurrentUser(r); ok && u.Token != "" {
		return base.WithToken(u.Token)
	}
	return base
}
