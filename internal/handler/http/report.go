package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/report"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	UserDetail(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

func reportQuery(r *http.Request) (report.Query, error) {
	window, err := parseDateWindow(r, 7)
	if err != nil {
		return report.Query{}, err
	}
	return report.Query{
		From:          window.From,
		To:            window.To,
		EmployeeQuery: r.URL.Query().Get("employee"),
	}, nil
}

// Get implements ReportHandler.
func (h *ReportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		response.BadRequest(w, "Dates must be in YYYY-MM-DD format", nil)
		return
	}

	result, err := h.reportService.Build(r.Context(), q)
	if err != nil {
		slog.Error("Report build error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UserDetail implements ReportHandler.
func (h *ReportHandlerImpl) UserDetail(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		response.BadRequest(w, "Dates must be in YYYY-MM-DD format", nil)
		return
	}

	userName := chi.URLParam(r, "userName")
	detail, err := h.reportService.UserDetail(r.Context(), userName, q)
	if err != nil {
		slog.Error("Report user detail error", "user_name", userName, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

// Export implements ReportHandler. The workbook is streamed as an xlsx
// attachment.
func (h *ReportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		response.BadRequest(w, "Dates must be in YYYY-MM-DD format", nil)
		return
	}

	data, err := h.reportService.Export(r.Context(), q)
	if err != nil {
		slog.Error("Report export error", "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ExportFileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("Report export write error", "error", err)
	}
}
