// internal/app/features/offices/handler.go
package offices

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

// Handler serves bookable offices and their bookings.
type Handler struct {
	API      *apiclient.Client
	SM       *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	del *listpage.Deleter[models.Office]
	now func() time.Time
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	h := &Handler{API: api, SM: sm, Log: logger, ErrLog: errLog, AuditLog: audit, now: time.Now}
	h.del = &listpage.Deleter[models.Office]{
		Kind:     listctl.Offices,
		Resource: "offices",
		ListURL:  "/offices",
		API:      api,
		Source:   func(c *apiclient.Client) listctl.Source[models.Office] { return c.Offices() },
		IDOf:     officeID,
		Label: func(ctx context.Context, c *apiclient.Client, id string) (string, error) {
			o, err := c.Offices().Get(ctx, id)
			return o.Name, err
		},
		SM:     sm,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
	return h
}

func officeID(o models.Office) string         { return o.ID }
func bookingID(b models.OfficeBooking) string { return b.ID }
