package events

// Lifecycle event types stored in the outbox.
const (
	EventApplicationCreated       = "application.created"
	EventApplicationStatusChanged = "application.status_changed"
	EventApplicationCancelled     = "application.cancelled"
	EventSelectionApplied         = "selection.applied"
)

// ApplicationCreatedPayload captures the minimal data needed to react
// to a new application downstream.
type ApplicationCreatedPayload struct {
	ApplicationID string `json:"application_id"`
	SelectionID   string `json:"selection_id,omitempty"`
	Provider      string `json:"provider"`
	OfferID       string `json:"offer_id"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p ApplicationCreatedPayload) ToMap() map[string]any {
	payload := map[string]any{
		"application_id": p.ApplicationID,
		"provider":       p.Provider,
		"offer_id":       p.OfferID,
	}
	if p.SelectionID != "" {
		payload["selection_id"] = p.SelectionID
	}
	return payload
}

// ApplicationStatusChangedPayload records one status transition.
type ApplicationStatusChangedPayload struct {
	ApplicationID string `json:"application_id"`
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
	Reason        string `json:"reason,omitempty"`
}

func (p ApplicationStatusChangedPayload) ToMap() map[string]any {
	payload := map[string]any{
		"application_id": p.ApplicationID,
		"from_status":    p.FromStatus,
		"to_status":      p.ToStatus,
	}
	if p.Reason != "" {
		payload["reason"] = p.Reason
	}
	return payload
}

// SelectionAppliedPayload links an applied selection to the
// application it produced.
type SelectionAppliedPayload struct {
	SelectionID   string `json:"selection_id"`
	ApplicationID string `json:"application_id"`
	Provider      string `json:"provider"`
}

func (p SelectionAppliedPayload) ToMap() map[string]any {
	return map[string]any{
		"selection_id":   p.SelectionID,
		"application_id": p.ApplicationID,
		"provider":       p.Provider,
	}
}
