package localsched

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dcos/checkjob/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler exposes the scheduler through the subset of the Metronome v1 API
// that one-off job clients use.
func Handler(s *Scheduler, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &handler{sched: s, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Post("/", h.createJob)
		r.Get("/{jobID}", h.getJob)
		r.Delete("/{jobID}", h.deleteJob)
		r.Post("/{jobID}/runs", h.startRun)
		r.Get("/{jobID}/runs/{runID}", h.getRun)
		r.Get("/{jobID}/runs/{runID}/output", h.getRunOutput)
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	})
	return r
}

type handler struct {
	sched *Scheduler
	log   *slog.Logger
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (h *handler) createJob(w http.ResponseWriter, r *http.Request) {
	var job api.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.sched.CreateJob(job); err != nil {
		h.writeSchedError(w, err)
		return
	}
	job.History = nil
	writeJSON(w, http.StatusCreated, job)
}

func (h *handler) getJob(w http.ResponseWriter, r *http.Request) {
	withHistory := r.URL.Query().Get("embed") == "history"
	job, err := h.sched.GetJob(chi.URLParam(r, "jobID"), withHistory)
	if err != nil {
		h.writeSchedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	stopRuns, _ := strconv.ParseBool(r.URL.Query().Get("stopCurrentJobRuns"))
	if err := h.sched.DeleteJob(chi.URLParam(r, "jobID"), stopRuns); err != nil {
		h.writeSchedError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handler) startRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.sched.StartRun(chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeSchedError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (h *handler) getRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.sched.GetRun(chi.URLParam(r, "jobID"), chi.URLParam(r, "runID"))
	if err != nil {
		h.writeSchedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *handler) getRunOutput(w http.ResponseWriter, r *http.Request) {
	out, err := h.sched.RunOutput(chi.URLParam(r, "jobID"), chi.URLParam(r, "runID"))
	if err != nil {
		h.writeSchedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (h *handler) writeSchedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrJobNotFound), errors.Is(err, ErrRunNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrJobExists), errors.Is(err, ErrActiveRuns):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidJob):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrStopped):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("unexpected scheduler error", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Message: msg})
}
