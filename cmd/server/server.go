package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cirovladimir/ral-color-mix/internal/colorants"
	"github.com/cirovladimir/ral-color-mix/internal/logger"
	"github.com/cirovladimir/ral-color-mix/internal/mixes"
	"github.com/cirovladimir/ral-color-mix/internal/pricing"
	"github.com/cirovladimir/ral-color-mix/internal/report"
)

const maxBodyBytes = 1 << 20

type server struct {
	log      *logger.Logger
	mixes    mixes.Store
	drafts   *mixes.DraftStore
	defaults pricing.Params
	now      func() time.Time
}

func newServer(logg *logger.Logger, store mixes.Store, drafts *mixes.DraftStore, defaults pricing.Params) *server {
	return &server{
		log:      logg,
		mixes:    store,
		drafts:   drafts,
		defaults: defaults,
		now:      time.Now,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID(s.log))
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/colorants", s.handleColorants)

	r.Get("/draft/points", s.handleDraftPoints)
	r.Put("/draft/points", s.handleDraftPointsUpdate)
	r.Get("/draft/costs", s.handleDraftCosts)
	r.Put("/draft/costs", s.handleDraftCostsUpdate)
	r.Get("/draft/report", s.handleDraftReport)

	r.Post("/report", s.handleReport)

	r.Get("/mixes", s.handleMixesList)
	r.Post("/mixes", s.handleMixesSave)
	r.Get("/mixes/{id}", s.handleMixDetail)
	r.Get("/mixes/{id}/report", s.handleMixReport)
	r.Get("/mixes/{id}/text", s.handleMixText)

	return r
}

type reportResponse struct {
	Input     report.Input         `json:"input"`
	Summary   report.Summary       `json:"summary"`
	Colorants []report.ColorantRow `json:"colorants"`
}

type mixReportResponse struct {
	Mix      mixes.Mix      `json:"mix"`
	Snapshot report.Summary `json:"snapshot"`
	Current  report.Summary `json:"current"`
}

type saveMixRequest struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	EditingID      string               `json:"editingId"`
	Measurements   pricing.Measurements `json:"measurements"`
	BaseListPrice  *float64             `json:"baseListPrice"`
	SalePriceGross *float64             `json:"salePriceGross"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleColorants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, colorants.All())
}

func (s *server) handleDraftPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.drafts.LoadPoints(r.Context()))
}

func (s *server) handleDraftPointsUpdate(w http.ResponseWriter, r *http.Request) {
	var points pricing.Measurements
	if err := decodeBody(w, r, &points); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if points == nil {
		points = pricing.Measurements{}
	}
	if err := s.drafts.SavePoints(r.Context(), points); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDraftCosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.drafts.LoadCosts(r.Context()))
}

func (s *server) handleDraftCostsUpdate(w http.ResponseWriter, r *http.Request) {
	var costs mixes.Costs
	if err := decodeBody(w, r, &costs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if costs == nil {
		costs = mixes.Costs{}
	}
	if err := s.drafts.SaveCosts(r.Context(), costs); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDraftReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	measurements := mixes.MergeCosts(s.drafts.LoadPoints(ctx), s.drafts.LoadCosts(ctx))
	in := report.Input{Measurements: measurements, Params: s.paramsFromQuery(r, s.defaults)}
	writeJSON(w, http.StatusOK, buildReportResponse(in))
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	in, err := report.DecodeHandoff(raw, s.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report payload", nil)
		return
	}
	in.Params = s.paramsFromQuery(r, in.Params)

	writeJSON(w, http.StatusOK, buildReportResponse(in))
}

func (s *server) handleMixesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mixes.Sorted(s.mixes.LoadAll(r.Context())))
}

func (s *server) handleMixesSave(w http.ResponseWriter, r *http.Request) {
	var req saveMixRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	params := s.defaults
	if req.BaseListPrice != nil {
		params.BaseListPrice = *req.BaseListPrice
	}
	if req.SalePriceGross != nil {
		params.SalePriceGross = *req.SalePriceGross
	}

	ctx := s.log.WithMixID(r.Context(), strings.TrimSpace(req.ID))
	snapshot := report.Snapshot(req.ID, req.Name, req.Measurements, params, s.now())

	saved, err := mixes.Commit(ctx, s.mixes, snapshot, req.EditingID)
	if err != nil {
		var verr *mixes.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:  "Por favor ingresa un ID y un nombre para el mix.",
				Fields: verr.Fields,
			})
		case errors.Is(err, mixes.ErrIDChanged):
			writeError(w, http.StatusConflict, "el ID de un mix existente no se puede cambiar", nil)
		default:
			s.writeStoreError(w, r.WithContext(ctx), err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) handleMixDetail(w http.ResponseWriter, r *http.Request) {
	mix, ok := s.mixes.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "mix not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, mix)
}

func (s *server) handleMixReport(w http.ResponseWriter, r *http.Request) {
	mix, ok := s.mixes.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "mix not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, mixReportResponse{
		Mix:      mix,
		Snapshot: report.FromSnapshot(mix),
		Current:  report.Build(mix.Measurements, mix.Params()),
	})
}

func (s *server) handleMixText(w http.ResponseWriter, r *http.Request) {
	mix, ok := s.mixes.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	in := report.Input{Measurements: mix.Measurements, Params: mix.Params(), Mix: &mix}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.RenderText(w, in, report.FromSnapshot(mix), s.now()); err != nil {
		s.log.Error(r.Context(), "report.text_failed", err)
	}
}

// paramsFromQuery applies the baseListPrice and salePriceGross query
// parameters, as typed in the report form, on top of base.
func (s *server) paramsFromQuery(r *http.Request, base pricing.Params) pricing.Params {
	q := r.URL.Query()
	if q.Has("baseListPrice") {
		base.BaseListPrice = pricing.ParseAmount(q.Get("baseListPrice"))
	}
	if q.Has("salePriceGross") {
		base.SalePriceGross = pricing.ParseAmount(q.Get("salePriceGross"))
	}
	return base
}

func buildReportResponse(in report.Input) reportResponse {
	return reportResponse{
		Input:     in,
		Summary:   report.Build(in.Measurements, in.Params),
		Colorants: report.ColorantRows(in.Measurements),
	}
}

func (s *server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "store.write_failed", err)
	if errors.Is(err, mixes.ErrPersist) {
		retryable := true
		writeError(w, http.StatusServiceUnavailable, "no se pudo guardar, intenta de nuevo", &retryable)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error", nil)
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable *bool             `json:"retryable,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, retryable *bool) {
	writeJSON(w, status, errorResponse{Error: msg, Retryable: retryable})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dest)
}
