// internal/app/features/restaurants/handler.go
package restaurants

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

// Handler serves restaurants and the reservations booked at each one.
type Handler struct {
	API      *apiclient.Client
	SM       *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	del *listpage.Deleter[models.Restaurant]
	now func() time.Time
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	h := &Handler{API: api, SM: sm, Log: logger, ErrLog: errLog, AuditLog: audit, now: time.Now}
	h.del = &listpage.Deleter[models.Restaurant]{
		Kind:     listctl.Restaurants,
		Resource: "restaurants",
		ListURL:  "/restaurants",
		API:      api,
		Source:   func(c *apiclient.Client) listctl.Source[models.Restaurant] { return c.Restaurants() },
		IDOf:     restaurantID,
		Label: func(ctx context.Context, c *apiclient.Client, id string) (string, error) {
			rs, err := c.Restaurants().Get(ctx, id)
			return rs.Name, err
		},
		SM:     sm,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
	return h
}

func restaurantID(r models.Restaurant) string   { return r.ID }
func reservationID(r models.Reservation) string { return r.ID }
