// internal/app/features/members/handler.go
package members

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Members.
// API is the shared anonymous client; each request derives its own
// authenticated copy with auth.APIClient.
type Handler struct {
	API      *apiclient.Client
	SM       *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	del *listpage.Deleter[models.Member]
	now func() time.Time
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	h := &Handler{
		API:      api,
		SM:       sm,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		now:      time.Now,
	}
	h.del = &listpage.Deleter[models.Member]{
		Kind:     listctl.Members,
		Resource: "members",
		ListURL:  "/members",
		API:      api,
		Source:   func(c *apiclient.Client) listctl.Source[models.Member] { return c.Members() },
		IDOf:     memberID,
		Label: func(ctx context.Context, c *apiclient.Client, id string) (string, error) {
			m, err := c.Members().Get(ctx, id)
			return m.FullName(), err
		},
		SM:     sm,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
	return h
}

func memberID(m models.Member) string { return m.ID }
