package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/procureflow/intake/config"
	"github.com/procureflow/intake/gate"
	"github.com/procureflow/intake/intake"
	"github.com/procureflow/intake/postcart"
	"github.com/procureflow/intake/workflow"
)

// server exposes the intake core over the HTTP surface the UI consumes. It
// keeps one workflow engine per session plus the shared post-cart service.
type server struct {
	cfg    config.Config
	logger *slog.Logger
	post   *postcart.Service

	mu      sync.RWMutex
	engines map[string]*workflow.Engine
}

func newServer(cfg config.Config, logger *slog.Logger) (*server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &server{
		cfg:     cfg,
		logger:  logger,
		post:    postcart.NewService(),
		engines: make(map[string]*workflow.Engine),
	}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/workflow/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/workflow/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/workflow/sessions/{id}/navigate", s.handleNavigate)
	mux.HandleFunc("POST /api/workflow/sessions/{id}/complete", s.handleComplete)
	mux.HandleFunc("POST /api/workflow/sessions/{id}/back", s.handleBack)
	mux.HandleFunc("POST /api/workflow/sessions/{id}/reset", s.handleReset)

	mux.HandleFunc("POST /api/post-cart/g1-evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /api/post-cart/g1-explain", s.handleExplain)

	mux.HandleFunc("POST /api/post-cart/pr", s.handleCreatePR)
	mux.HandleFunc("GET /api/post-cart/pr/{id}", s.handlePRStatus)
	mux.HandleFunc("POST /api/post-cart/approvals/route", s.handleStartRouting)
	mux.HandleFunc("POST /api/post-cart/approvals/{id}/action", s.handleApprovalAction)

	mux.HandleFunc("POST /api/post-cart/rfq/generate", s.handleGenerateRFQ)
	mux.HandleFunc("POST /api/post-cart/rfq/draft", s.handleDraftRFQ)
	mux.HandleFunc("POST /api/post-cart/rfq/{id}/send", s.handleSendRFQ)
	mux.HandleFunc("GET /api/post-cart/rfq/{id}", s.handleRFQStatus)
	mux.HandleFunc("POST /api/post-cart/rfq/{id}/response", s.handleRFQResponse)

	return mux
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// engine resolves the workflow engine for a session id.
func (s *server) engine(id string) (*workflow.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[id]
	return e, ok
}

// --- workflow sessions ---

func (s *server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	engine, err := intake.NewEngine(s.cfg.Workflow)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	session := engine.Session()
	s.mu.Lock()
	s.engines[session.ID] = engine
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", session.ID)
	s.writeJSON(w, http.StatusCreated, session)
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, engine.Session())
}

// transitionResponse carries the post-transition snapshot; Error is set when
// the transition failed (the snapshot still reflects committed changes).
type transitionResponse struct {
	Session workflow.Session `json:"session"`
	Error   string           `json:"error,omitempty"`
	Code    string           `json:"code,omitempty"`
}

func (s *server) writeTransition(w http.ResponseWriter, session workflow.Session, err error) {
	resp := transitionResponse{Session: session}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusConflict
		if terr, ok := workflow.AsTransition(err); ok {
			resp.Error = terr.Message()
			resp.Code = string(terr.Code)
			if terr.Code == workflow.CodeStepNotFound {
				status = http.StatusNotFound
			}
		}
	}
	s.writeJSON(w, status, resp)
}

func (s *server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	var req struct {
		StepID int            `json:"stepId"`
		Data   map[string]any `json:"data"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	session, err := engine.NavigateToStep(r.Context(), req.StepID, req.Data)
	s.writeTransition(w, session, err)
}

func (s *server) handleComplete(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	var req struct {
		Data map[string]any `json:"data"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	session, err := engine.CompleteCurrentStep(r.Context(), req.Data)
	s.writeTransition(w, session, err)
}

func (s *server) handleBack(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	session, err := engine.GoBack(r.Context())
	s.writeTransition(w, session, err)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	var req struct {
		StepID int `json:"stepId"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	session, err := engine.ResetToStep(r.Context(), req.StepID)
	s.writeTransition(w, session, err)
}

// --- decision gate ---

func (s *server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var ctx gate.Context
	if !s.decode(w, r, &ctx) {
		return
	}
	s.writeJSON(w, http.StatusOK, gate.GenerateCartDecision(ctx))
}

func (s *server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var result gate.Result
	if !s.decode(w, r, &result) {
		return
	}
	s.writeJSON(w, http.StatusOK, gate.Explain(result))
}

// --- purchase requests / approvals ---

func (s *server) handleCreatePR(w http.ResponseWriter, r *http.Request) {
	var req postcart.CreatePRRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusCreated, s.post.CreatePR(req))
}

func (s *server) handlePRStatus(w http.ResponseWriter, r *http.Request) {
	pr, err := s.post.PRStatus(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pr)
}

func (s *server) handleStartRouting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PRID  string              `json:"prId"`
		Roles []gate.ApproverRole `json:"roles"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	pr, err := s.post.StartRouting(req.PRID, req.Roles)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pr)
}

func (s *server) handleApprovalAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role    gate.ApproverRole `json:"role"`
		Action  postcart.Action   `json:"action"`
		Comment string            `json:"comment"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	pr, err := s.post.SubmitAction(r.PathValue("id"), req.Role, req.Action, req.Comment)
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, postcart.ErrPRNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pr)
}

// --- RFQs ---

func (s *server) handleGenerateRFQ(w http.ResponseWriter, r *http.Request) {
	var req postcart.GenerateRFQRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"rfqs": s.post.GenerateRFQ(req)})
}

func (s *server) handleDraftRFQ(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vendor    gate.Vendor     `json:"vendor"`
		LineItems []gate.LineItem `json:"lineItems"`
		DueDate   string          `json:"dueDate"`
		Terms     postcart.Terms  `json:"terms"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, postcart.DraftMessage(req.Vendor, req.LineItems, req.DueDate, req.Terms))
}

func (s *server) handleSendRFQ(w http.ResponseWriter, r *http.Request) {
	rfq, err := s.post.SendRFQ(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rfq)
}

func (s *server) handleRFQStatus(w http.ResponseWriter, r *http.Request) {
	rfq, err := s.post.RFQStatus(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rfq)
}

func (s *server) handleRFQResponse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorID string         `json:"vendorId"`
		Payload  map[string]any `json:"payload"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	rfq, err := s.post.RecordResponse(r.PathValue("id"), req.VendorID, req.Payload)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rfq)
}
