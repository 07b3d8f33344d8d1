package postcart

import (
	"fmt"
	"slices"
	"time"

	"github.com/procureflow/intake/gate"
)

// PRState is the lifecycle state of a purchase request.
type PRState string

const (
	PRDraft    PRState = "draft"
	PRPending  PRState = "pending_approval"
	PRApproved PRState = "approved"
	PRRejected PRState = "rejected"
)

// ApprovalState is the state of one role's slot in the approval route.
type ApprovalState string

const (
	ApprovalWaiting  ApprovalState = "waiting"
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// Action is a decision submitted by an approver.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ApprovalStep is one role's slot in a PR's ordered approval route.
type ApprovalStep struct {
	Role    gate.ApproverRole `json:"role"`
	State   ApprovalState     `json:"state"`
	Comment string            `json:"comment,omitempty"`
	ActedAt *time.Time        `json:"actedAt,omitempty"`
}

// PurchaseRequest is the record behind the direct-approvals path.
type PurchaseRequest struct {
	ID            string          `json:"id"`
	Status        PRState         `json:"status"`
	Title         string          `json:"title"`
	Vendors       []gate.Vendor   `json:"vendors"`
	Items         []gate.LineItem `json:"items"`
	EstimatedCost float64         `json:"estimatedCost"`
	Route         []ApprovalStep  `json:"route"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// snapshot copies the record so callers never alias the stored route.
func (pr *PurchaseRequest) snapshot() PurchaseRequest {
	out := *pr
	out.Route = slices.Clone(pr.Route)
	return out
}

// CreatePRRequest carries the cart contents into a new purchase request.
type CreatePRRequest struct {
	Title         string          `json:"title"`
	Vendors       []gate.Vendor   `json:"vendors"`
	Items         []gate.LineItem `json:"items"`
	EstimatedCost float64         `json:"estimatedCost"`
}

// CreatePR registers a new draft purchase request.
func (s *Service) CreatePR(req CreatePRRequest) PurchaseRequest {
	now := time.Now()
	pr := &PurchaseRequest{
		ID:            newID("PR"),
		Status:        PRDraft,
		Title:         req.Title,
		Vendors:       req.Vendors,
		Items:         req.Items,
		EstimatedCost: req.EstimatedCost,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	s.prs[pr.ID] = pr
	s.mu.Unlock()
	return pr.snapshot()
}

// StartRouting builds the ordered approval route from the required approver
// roles and moves the PR to pending_approval. The first role becomes pending,
// the rest wait their turn. An empty role set approves the PR immediately.
func (s *Service) StartRouting(prID string, roles []gate.ApproverRole) (PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.prs[prID]
	if !ok {
		return PurchaseRequest{}, fmt.Errorf("%w: %s", ErrPRNotFound, prID)
	}

	pr.Route = make([]ApprovalStep, len(roles))
	for i, role := range roles {
		state := ApprovalWaiting
		if i == 0 {
			state = ApprovalPending
		}
		pr.Route[i] = ApprovalStep{Role: role, State: state}
	}

	pr.Status = PRPending
	if len(roles) == 0 {
		pr.Status = PRApproved
	}
	pr.UpdatedAt = time.Now()
	return pr.snapshot(), nil
}

// SubmitAction records an approver's decision. Approval advances the route to
// the next role, and the PR becomes approved once every role has signed off.
// Rejection terminates the route immediately. A role may only act while its
// slot is pending.
func (s *Service) SubmitAction(prID string, role gate.ApproverRole, action Action, comment string) (PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.prs[prID]
	if !ok {
		return PurchaseRequest{}, fmt.Errorf("%w: %s", ErrPRNotFound, prID)
	}
	if pr.Status == PRApproved || pr.Status == PRRejected {
		return PurchaseRequest{}, fmt.Errorf("%w: %s is %s", ErrRouteFinished, prID, pr.Status)
	}
	if len(pr.Route) == 0 {
		return PurchaseRequest{}, fmt.Errorf("%w: %s", ErrNoRoute, prID)
	}

	idx := -1
	for i, step := range pr.Route {
		if step.Role == role && step.State == ApprovalPending {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PurchaseRequest{}, fmt.Errorf("%w: %s on %s", ErrOutOfTurn, role, prID)
	}

	now := time.Now()
	pr.Route[idx].Comment = comment
	pr.Route[idx].ActedAt = &now
	pr.UpdatedAt = now

	switch action {
	case ActionReject:
		pr.Route[idx].State = ApprovalRejected
		pr.Status = PRRejected

	case ActionApprove:
		pr.Route[idx].State = ApprovalApproved
		if idx+1 < len(pr.Route) {
			pr.Route[idx+1].State = ApprovalPending
		} else {
			pr.Status = PRApproved
		}

	default:
		return PurchaseRequest{}, fmt.Errorf("unknown approval action %q", action)
	}

	return pr.snapshot(), nil
}

// PRStatus returns a snapshot of the purchase request.
func (s *Service) PRStatus(prID string) (PurchaseRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pr, ok := s.prs[prID]
	if !ok {
		return PurchaseRequest{}, fmt.Errorf("%w: %s", ErrPRNotFound, prID)
	}
	return pr.snapshot(), nil
}
