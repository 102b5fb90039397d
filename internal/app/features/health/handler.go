package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB  Pinger
	API *apiclient.Client
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the club
// API client and logger.
func NewHandler(db Pinger, api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		API: api,
		Log: logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	API      string `json:"api"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "api":"reachable" }
//
// The database is required; an unreachable club API degrades the status
// but still answers 200 since the dashboard can render its error states:
//
//	{ "status":"degraded", "database":"connected", "api":"unreachable", "error":"…" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		API:      "reachable",
	}

	if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.API = ""
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if status, err := h.API.Health(ctx); err != nil || status != "healthy" {
		h.Log.Warn("health-check: club api unhealthy", zap.String("api_status", status), zap.Error(err))
		resp.Status = "degraded"
		resp.API = "unreachable"
		if err != nil {
			resp.Error = apiclient.Message(err)
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
