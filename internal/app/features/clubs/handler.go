// internal/app/features/clubs/handler.go
package clubs

import (
	"context"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves club locations. Only admins and club managers reach it.
type Handler struct {
	API      *apiclient.Client
	SM       *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	del *listpage.Deleter[models.Club]
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	h := &Handler{API: api, SM: sm, Log: logger, ErrLog: errLog, AuditLog: audit}
	h.del = &listpage.Deleter[models.Club]{
		Kind:     listctl.Clubs,
		Resource: "clubs",
		ListURL:  "/clubs",
		API:      api,
		Source:   func(c *apiclient.Client) listctl.Source[models.Club] { return c.Clubs() },
		IDOf:     clubID,
		Label: func(ctx context.Context, c *apiclient.Client, id string) (string, error) {
			club, err := c.Clubs().Get(ctx, id)
			return club.Name, err
		},
		SM:     sm,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
	return h
}

func clubID(c models.Club) string { return c.ID }
