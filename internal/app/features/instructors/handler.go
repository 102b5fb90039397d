// internal/app/features/instructors/handler.go
package instructors

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

type Handler struct {
	API      *apiclient.Client
	SM       *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	del *listpage.Deleter[models.Instructor]
	now func() time.Time
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	h := &Handler{API: api, SM: sm, Log: logger, ErrLog: errLog, AuditLog: audit, now: time.Now}
	h.del = &listpage.Deleter[models.Instructor]{
		Kind:     listctl.Instructors,
		Resource: "instructors",
		ListURL:  "/instructors",
		API:      api,
		Source:   func(c *apiclient.Client) listctl.Source[models.Instructor] { return c.Instructors() },
		IDOf:     instructorID,
		Label: func(ctx context.Context, c *apiclient.Client, id string) (string, error) {
			in, err := c.Instructors().Get(ctx, id)
			return in.Name, err
		},
		SM:     sm,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
	return h
}

func instructorID(in models.Instructor) string { return in.ID }
