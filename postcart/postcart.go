// Package postcart implements the two paths that follow a cart decision:
// direct purchase-request approvals, and an RFQ cycle that gathers vendor
// quotes when the gate found gaps.
//
// The service keeps its records in memory; callers that need durability can
// snapshot through the accessors. All operations are safe for concurrent use.
package postcart

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrPRNotFound  = errors.New("purchase request not found")
	ErrRFQNotFound = errors.New("rfq not found")

	// ErrOutOfTurn is returned when a role acts before the route reaches it.
	ErrOutOfTurn = errors.New("approval not pending for this role")

	// ErrRouteFinished is returned for actions on an approved or rejected PR.
	ErrRouteFinished = errors.New("approval route already finished")

	ErrNoRoute = errors.New("purchase request has no approval route")
)

// Service owns the post-cart records. Create one per process with NewService.
type Service struct {
	mu   sync.RWMutex
	prs  map[string]*PurchaseRequest
	rfqs map[string]*RFQ
}

func NewService() *Service {
	return &Service{
		prs:  make(map[string]*PurchaseRequest),
		rfqs: make(map[string]*RFQ),
	}
}

// newID returns a short prefixed id such as "PR-1b9d6bcd".
func newID(prefix string) string {
	raw := uuid.NewString()
	return prefix + "-" + strings.SplitN(raw, "-", 2)[0]
}
