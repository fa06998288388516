package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kishhcodes/cloudgate/internal/httpx"
	"github.com/kishhcodes/cloudgate/internal/validation"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
	"github.com/kishhcodes/cloudgate/pkg/provider"
	"github.com/kishhcodes/cloudgate/pkg/remediation"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
	sharedmath "github.com/kishhcodes/cloudgate/pkg/shared/math"
)

// routes wires the §4.9 HTTP programmatic API onto r.
func (s *server) routes(r chi.Router) {
	r.Route("/v1/providers/{provider}", func(r chi.Router) {
		r.Post("/commands", s.handleExecuteCommand)
		r.Get("/context", s.handleCurrentContext)
	})

	r.Route("/v1/playbooks/{id}", func(r chi.Router) {
		r.Post("/executions", s.handleCreateExecution)
	})

	r.Route("/v1/executions", func(r chi.Router) {
		r.Get("/", s.handleListExecutions)
		r.Get("/{id}", s.handleGetExecution)
		r.Post("/{id}/approve", s.handleApprove)
		r.Post("/{id}/reject", s.handleReject)
		r.Post("/{id}/rollback", s.handleRollback)
	})

	r.Get("/healthz", s.handleHealthz)
}

func (s *server) providerFromPath(w http.ResponseWriter, r *http.Request) (provider.Kind, bool) {
	kind := provider.Kind(chi.URLParam(r, "provider"))
	if _, ok := provider.Specs(kind); !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindValidation, "provider", "unknown provider: "+string(kind)))
		return "", false
	}
	return kind, true
}

func (s *server) handleExecuteCommand(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.providerFromPath(w, r)
	if !ok {
		return
	}
	gw, ok := s.gateways[kind]
	if !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindValidation, "provider", "provider not started: "+string(kind)))
		return
	}

	var req validation.ExecuteCommandRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		httpx.Error(w, gwerrors.Wrap(gwerrors.KindValidation, "validate request", err))
		return
	}

	res := gw.ExecuteCommand(r.Context(), req.Text)
	httpx.JSON(w, http.StatusOK, res)
}

func (s *server) handleCurrentContext(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.providerFromPath(w, r)
	if !ok {
		return
	}
	gw, ok := s.gateways[kind]
	if !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindValidation, "provider", "provider not started: "+string(kind)))
		return
	}
	httpx.JSON(w, http.StatusOK, gw.CurrentContext())
}

func (s *server) playbookByID(id string) (playbook.Playbook, bool) {
	pb, ok := s.playbooks[id]
	return pb, ok
}

func (s *server) handleCreateExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pb, ok := s.playbookByID(id)
	if !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindValidation, "playbook", "unknown playbook: "+id))
		return
	}

	var req validation.CreateExecutionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		httpx.Error(w, gwerrors.Wrap(gwerrors.KindValidation, "validate request", err))
		return
	}

	finding := playbook.Finding{ID: req.FindingID}
	exec, err := s.engine.Execute(r.Context(), pb, finding, req.Initiator, req.DryRun)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, exec)
}

func (s *server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exec, ok := s.engine.Get(id)
	if !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindState, "not-found", "unknown execution: "+id))
		return
	}
	pb, ok := s.playbookByID(exec.PlaybookID)
	if !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindValidation, "playbook", "unknown playbook: "+exec.PlaybookID))
		return
	}

	var req validation.ApproveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		httpx.Error(w, gwerrors.Wrap(gwerrors.KindValidation, "validate request", err))
		return
	}

	finding := playbook.Finding{ID: exec.FindingID}
	if err := s.engine.Approve(r.Context(), id, req.Approver, pb, finding); err != nil {
		httpx.Error(w, err)
		return
	}
	exec, _ = s.engine.Get(id)
	httpx.JSON(w, http.StatusOK, exec)
}

func (s *server) handleReject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req validation.RejectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		httpx.Error(w, gwerrors.Wrap(gwerrors.KindValidation, "validate request", err))
		return
	}

	if err := s.engine.Reject(r.Context(), id, req.Rejector, req.Reason); err != nil {
		httpx.Error(w, err)
		return
	}
	exec, _ := s.engine.Get(id)
	httpx.JSON(w, http.StatusOK, exec)
}

func (s *server) handleRollback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.Rollback(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	exec, _ := s.engine.Get(id)
	httpx.JSON(w, http.StatusOK, exec)
}

func (s *server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exec, ok := s.engine.Get(id)
	if !ok {
		httpx.Error(w, gwerrors.NewCategory(gwerrors.KindState, "not-found", "unknown execution: "+id))
		return
	}
	httpx.JSON(w, http.StatusOK, exec)
}

func (s *server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	filter := remediation.HistoryFilter{
		PlaybookID: r.URL.Query().Get("playbookID"),
		FindingID:  r.URL.Query().Get("findingID"),
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	executions := s.engine.History(filter, limit)
	httpx.JSON(w, http.StatusOK, listExecutionsResponse{
		Executions: executions,
		Durations:  durationSummary(executions),
	})
}

// listExecutionsResponse wraps a history page with a summary of how long
// its terminal executions took, so a caller can spot a slowing playbook
// without fetching every execution to compute it client-side.
type listExecutionsResponse struct {
	Executions []remediation.Execution `json:"executions"`
	Durations  *durationStats          `json:"durations,omitempty"`
}

type durationStats struct {
	MeanSeconds   float64 `json:"meanSeconds"`
	StdDevSeconds float64 `json:"stdDevSeconds"`
	P95Seconds    float64 `json:"p95Seconds"`
}

func durationSummary(executions []remediation.Execution) *durationStats {
	var secs []float64
	for _, exec := range executions {
		if exec.EndedAt.IsZero() {
			continue
		}
		secs = append(secs, exec.EndedAt.Sub(exec.StartedAt).Seconds())
	}
	if len(secs) == 0 {
		return nil
	}
	return &durationStats{
		MeanSeconds:   sharedmath.Mean(secs),
		StdDevSeconds: sharedmath.StdDev(secs),
		P95Seconds:    sharedmath.Percentile(secs, 95),
	}
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
