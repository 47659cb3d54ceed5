package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	mw "github.com/upliftlabs/insights/internal/api/middleware"
	"github.com/upliftlabs/insights/internal/api/response"
	"github.com/upliftlabs/insights/internal/insight"
	"github.com/upliftlabs/insights/pkg/models"
)

// Generator defines the insight-service interface the handlers depend on.
type Generator interface {
	Generate(ctx context.Context, tenantID uuid.UUID, insightType, timeframe string) (*insight.Run, error)
}

// generateRequest is the POST /api/v1/insights body. An empty type asks
// for every family.
type generateRequest struct {
	Type      string `json:"type"`
	Timeframe string `json:"timeframe"`
}

// NewGenerateHandler returns an http.HandlerFunc for POST /api/v1/insights.
func NewGenerateHandler(svc Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		insightType := req.Type
		if insightType == "" {
			insightType = insight.TypeAll
		}

		run, err := svc.Generate(r.Context(), tenantID, insightType, req.Timeframe)
		if err != nil {
			switch {
			case errors.Is(err, insight.ErrUnknownType):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"type must be one of employee_attrition, student_success, job_placement, skill_gap, all", nil)
			case errors.Is(err, insight.ErrInvalidTimeframe):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"timeframe must be one of week, month, quarter", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"Failed to generate insights", err.Error())
			}
			return
		}

		slog.Info("insight run generated",
			"tenant_id", tenantID,
			"type", insightType,
			"timeframe", req.Timeframe,
			"insights", len(run.Insights),
		)

		response.JSON(w, run)
	}
}

// MetricsProvider defines the aggregate-metrics interface the handler
// depends on.
type MetricsProvider interface {
	Metrics(ctx context.Context, tenantID uuid.UUID) (*models.PredictiveMetrics, error)
}

// NewMetricsHandler returns an http.HandlerFunc for GET /api/v1/insights/metrics.
func NewMetricsHandler(svc MetricsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		m, err := svc.Metrics(r.Context(), tenantID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to compute metrics", err.Error())
			return
		}

		response.JSON(w, m)
	}
}
