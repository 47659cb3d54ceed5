package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mw "github.com/upliftlabs/insights/internal/api/middleware"
	"github.com/upliftlabs/insights/internal/api/response"
	"github.com/upliftlabs/insights/internal/export"
	"github.com/upliftlabs/insights/internal/insight"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NewExportHandler returns an http.HandlerFunc for POST /api/v1/insights/export.
// It runs the pipeline like the generate endpoint but streams the result
// as an xlsx workbook for offline review.
func NewExportHandler(svc Generator) http.HandlerFunc {
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
			case errors.Is(err, insight.ErrUnknownType), errors.Is(err, insight.ErrInvalidTimeframe):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"Failed to generate insights", err.Error())
			}
			return
		}

		filename := fmt.Sprintf("insights-%s-%s.xlsx", insightType, run.GeneratedAt.Format("2006-01-02"))
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		// Headers are committed once the workbook starts streaming; a
		// write failure here can only truncate the download.
		if err := export.WriteWorkbook(w, run); err != nil {
			slog.Error("workbook export failed", "error", err)
		}
	}
}
