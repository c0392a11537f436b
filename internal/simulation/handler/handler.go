package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/report"
	id "github.com/Degagemain/degage-sub000/pkg/domain"
	dErrors "github.com/Degagemain/degage-sub000/pkg/domain-errors"
	"github.com/Degagemain/degage-sub000/pkg/platform/httputil"
	"github.com/Degagemain/degage-sub000/pkg/platform/listparam"
	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service.go -package=mocks Service

// Service defines the simulation operations exposed over HTTP.
type Service interface {
	Simulate(ctx context.Context, in models.RunInput) (*models.Run, error)
	Get(ctx context.Context, runID id.RunID) (*models.Run, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Run, error)
}

// Handler wires simulation endpoints to the simulation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts simulation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/simulations", h.HandleSimulate)
	r.Get("/simulations", h.HandleList)
	r.Get("/simulations/{id}", h.HandleGet)
	r.Get("/simulations/{id}/report", h.HandleReport)
}

// HandleSimulate handles POST /simulations.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SimulateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	run, err := h.service.Simulate(ctx, req.ToInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "simulation failed",
			"request_id", requestID,
			"town_id", req.TownID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "simulation evaluated",
		"request_id", requestID,
		"run_id", run.ID,
		"result_code", run.Result.ResultCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromRun(run))
}

// HandleGet handles GET /simulations/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	runID, err := id.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	run, err := h.service.Get(ctx, runID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load simulation",
				"request_id", requestID,
				"run_id", runID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRun(run))
}

// HandleReport handles GET /simulations/{id}/report?format=pdf|xlsx.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	runID, err := id.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	var (
		render      func(*models.Run) ([]byte, error)
		contentType string
	)
	switch format {
	case "pdf":
		render, contentType = report.BuildRunPDF, "application/pdf"
	case "xlsx":
		render = func(run *models.Run) ([]byte, error) { return report.BuildRunsXLSX([]*models.Run{run}) }
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "format must be pdf or xlsx"))
		return
	}

	run, err := h.service.Get(ctx, runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	body, err := render(run)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render simulation report",
			"request_id", requestID,
			"run_id", runID,
			"format", format,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render report"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"simulation-"+runID.String()+"."+format+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// HandleList handles GET /simulations?result=CATEGORY_A,NOT_OK&limit=20.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	runs, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list simulations",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRuns(runs))
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	q := r.URL.Query()
	var filter models.ListFilter

	for _, raw := range listparam.Split(q.Get("result")) {
		code, err := models.ParseResultCode(raw)
		if err != nil {
			return models.ListFilter{}, err
		}
		filter.ResultCodes = append(filter.ResultCodes, code)
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return models.ListFilter{}, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}
