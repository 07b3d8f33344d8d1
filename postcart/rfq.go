package postcart

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/procureflow/intake/gate"
)

// RFQState is the lifecycle state of one request for quote.
type RFQState string

const (
	RFQDraft RFQState = "draft"
	RFQSent  RFQState = "sent"
)

// RFQ is one vendor-directed request for quote.
type RFQ struct {
	ID        string          `json:"id"`
	Vendor    gate.Vendor     `json:"vendor"`
	Items     []gate.LineItem `json:"items"`
	DueDate   string          `json:"dueDate,omitempty"`
	Status    RFQState        `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	SentAt    *time.Time      `json:"sentAt,omitempty"`

	// Responses maps vendor id to the uploaded response payload.
	Responses map[string]map[string]any `json:"responses,omitempty"`
}

func (r *RFQ) snapshot() RFQ {
	out := *r
	out.Responses = maps.Clone(r.Responses)
	return out
}

// GenerateRFQRequest carries the cart contents into the RFQ path.
type GenerateRFQRequest struct {
	Vendors []gate.Vendor   `json:"vendors"`
	Items   []gate.LineItem `json:"items"`
	DueDate string          `json:"dueDate,omitempty"`
}

// GenerateRFQ creates one draft RFQ per selected vendor.
func (s *Service) GenerateRFQ(req GenerateRFQRequest) []RFQ {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RFQ, 0, len(req.Vendors))
	for _, vendor := range req.Vendors {
		rfq := &RFQ{
			ID:        newID("RFQ"),
			Vendor:    vendor,
			Items:     req.Items,
			DueDate:   req.DueDate,
			Status:    RFQDraft,
			CreatedAt: now,
			Responses: make(map[string]map[string]any),
		}
		s.rfqs[rfq.ID] = rfq
		out = append(out, rfq.snapshot())
	}
	return out
}

// Terms are the commercial terms quoted in an RFQ message.
type Terms struct {
	Delivery string `json:"delivery,omitempty"`
	Payment  string `json:"payment,omitempty"`
}

// Draft is a ready-to-send RFQ message.
type Draft struct {
	Subject string `json:"subject"`
	BodyMD  string `json:"body_md"`
}

// DraftMessage renders the outgoing RFQ message for a vendor: a subject line
// and a markdown body listing the line items and commercial terms. Empty
// terms default to FOB Destination / Net 30.
func DraftMessage(vendor gate.Vendor, items []gate.LineItem, due string, terms Terms) Draft {
	name := vendor.Name
	if name == "" {
		name = vendor.ID
	}
	if name == "" {
		name = "Vendor"
	}
	if terms.Delivery == "" {
		terms.Delivery = "FOB Destination"
	}
	if terms.Payment == "" {
		terms.Payment = "Net 30"
	}

	var lines []string
	for _, item := range items {
		desc := item.Description
		if desc == "" {
			desc = "Item"
		}
		lines = append(lines, fmt.Sprintf("- %s x%g (%s)", desc, item.Quantity, item.UOM))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Please provide a quote for the following items by %s:\n\n", due)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Terms:\n- Delivery: %s\n- Payment: %s\n\n", terms.Delivery, terms.Payment)
	b.WriteString("Thank you,\nProcurement Team")

	return Draft{
		Subject: "Request for Quote – " + name,
		BodyMD:  b.String(),
	}
}

// SendRFQ marks the RFQ as sent. Sending is idempotent.
func (s *Service) SendRFQ(rfqID string) (RFQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfq, ok := s.rfqs[rfqID]
	if !ok {
		return RFQ{}, fmt.Errorf("%w: %s", ErrRFQNotFound, rfqID)
	}

	if rfq.Status != RFQSent {
		now := time.Now()
		rfq.Status = RFQSent
		rfq.SentAt = &now
	}
	return rfq.snapshot(), nil
}

// RecordResponse stores a vendor's response payload against the RFQ.
func (s *Service) RecordResponse(rfqID, vendorID string, payload map[string]any) (RFQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfq, ok := s.rfqs[rfqID]
	if !ok {
		return RFQ{}, fmt.Errorf("%w: %s", ErrRFQNotFound, rfqID)
	}

	rfq.Responses[vendorID] = payload
	return rfq.snapshot(), nil
}

// RFQStatus returns a snapshot of the RFQ and its recorded responses.
func (s *Service) RFQStatus(rfqID string) (RFQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rfq, ok := s.rfqs[rfqID]
	if !ok {
		return RFQ{}, fmt.Errorf("%w: %s", ErrRFQNotFound, rfqID)
	}
	return rfq.snapshot(), nil
}
