package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salescli/internal/errors"
	"salescli/internal/middleware"
)

// ReportHandler handles report-related HTTP requests with RFC 7807 compliance
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "report")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListReportFiles)
	r.Get("/daily", h.GetDailySales)
	r.Get("/weekly", h.GetWeeklyRevenueByStore)
	r.Get("/products", h.GetAvgQuantityByProductAndAgeGroup)
	r.Get("/monthly", h.GetMonthlyRevenue)
	r.Get("/quarterly", h.GetQuarterlyRevenue)
	r.Get("/stats", h.GetStats)
	r.Post("/reload", h.ReloadReports)

	// Download routes serve the generated report files as-is
	r.Route("/download/{filename}", func(r chi.Router) {
		r.Use(h.FilenameCtx)
		r.Get("/", h.DownloadReportFile)
	})

	return r
}

// FilenameCtx middleware validates the filename parameter
func (h *ReportHandler) FilenameCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "filename") == "" {
			h.errorHandler.HandleError(w, r, apierrors.NewValidationError("filename is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListReportFiles handles GET /api/reports
func (h *ReportHandler) ListReportFiles(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReportFiles(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "report listing", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"reports": reports, "count": len(reports)})
}

// GetDailySales handles GET /api/reports/daily
func (h *ReportHandler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DailySales(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "daily sales", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"daily_sales": summary, "count": len(summary)})
}

// GetWeeklyRevenueByStore handles GET /api/reports/weekly
func (h *ReportHandler) GetWeeklyRevenueByStore(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.WeeklyRevenueByStore(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "weekly revenue", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"weekly_revenue": summary, "count": len(summary)})
}

// GetAvgQuantityByProductAndAgeGroup handles GET /api/reports/products
func (h *ReportHandler) GetAvgQuantityByProductAndAgeGroup(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.AvgQuantityByProductAndAgeGroup(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "product age groups", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"product_age_groups": summary, "count": len(summary)})
}

// GetMonthlyRevenue handles GET /api/reports/monthly
func (h *ReportHandler) GetMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.MonthlyRevenue(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "monthly revenue", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"monthly_revenue": summary, "count": len(summary)})
}

// GetQuarterlyRevenue handles GET /api/reports/quarterly
func (h *ReportHandler) GetQuarterlyRevenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.QuarterlyRevenue(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "quarterly revenue", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"quarterly_revenue": summary, "count": len(summary)})
}

// GetStats handles GET /api/reports/stats
func (h *ReportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "summary statistics", err)
		return
	}
	render.JSON(w, r, stats)
}

// ReloadReports handles POST /api/reports/reload
func (h *ReportHandler) ReloadReports(w http.ResponseWriter, r *http.Request) {
	h.service.Reload(r.Context())
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "reload scheduled"})
}

// DownloadReportFile handles GET /api/reports/download/{filename}
func (h *ReportHandler) DownloadReportFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.service.ReportFilePath(filename)
	if err != nil {
		h.handleServiceError(w, r, "report download", err)
		return
	}

	h.logger.InfoContext(r.Context(), "serving report file",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("filename", filename))

	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	http.ServeFile(w, r, path)
}

func (h *ReportHandler) handleServiceError(w http.ResponseWriter, r *http.Request, report string, err error) {
	h.logger.ErrorContext(r.Context(), "report request failed",
		slog.String("report", report),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, err)
}
