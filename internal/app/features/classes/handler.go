// internal/app/features/classes/handler.go
package classes

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

// Handler serves the class schedule, class detail with enrollment, and
// the class forms.
type Handler struct {
	API      *apiclient.Client
	SM       *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	del *listpage.Deleter[models.Class]
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
	h.del = &listpage.Deleter[models.Class]{
		Kind:     listctl.Classes,
		Resource: "classes",
		ListURL:  "/classes",
		API:      api,
		Source:   source,
		IDOf:     classID,
		Label: func(ctx context.Context, c *apiclient.Client, id string) (string, error) {
			cl, err := c.Classes().Get(ctx, id)
			return cl.Name, err
		},
		SM:     sm,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
	return h
}

func classID(c models.Class) string { return c.ID }

func source(c *apiclient.Client) listctl.Source[models.Class] { return c.Classes() }
