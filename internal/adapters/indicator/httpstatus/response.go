package httpstatus

import (
	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

// UsageResponse is the JSON form of a usage state. Dates are ISO-8601 UTC
// strings, empty when unknown.
type UsageResponse struct {
	Available         bool   `json:"available"`
	Text              string `json:"text"`
	Tooltip           string `json:"tooltip"`
	Percent           int    `json:"percent"`
	PremiumUsed       int64  `json:"premium_used"`
	PremiumLimit      int64  `json:"premium_limit"`
	PremiumRemaining  int64  `json:"premium_remaining"`
	StandardUsed      int64  `json:"standard_used"`
	StandardLimit     int64  `json:"standard_limit"`
	BillingCycleStart string `json:"billing_cycle_start,omitempty"`
	BillingCycleEnd   string `json:"billing_cycle_end,omitempty"`
	FetchedAt         string `json:"fetched_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
	Refreshing        bool   `json:"refreshing"`
	Stale             bool   `json:"stale"`
	Error             string `json:"error,omitempty"`
}

func NewUsageResponse(state application.UsageState) UsageResponse {
	resp := UsageResponse{
		Text:       state.Text,
		Tooltip:    domain.Tooltip(state.Text),
		Percent:    state.Percent,
		UpdatedAt:  domain.FormatISO(state.UpdatedAt),
		Refreshing: state.Refreshing,
		Stale:      state.Stale(),
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}

	if snapshot := state.Snapshot; snapshot != nil {
		resp.Available = true
		resp.PremiumUsed = snapshot.PremiumUsed
		resp.PremiumLimit = snapshot.PremiumLimit
		resp.PremiumRemaining = snapshot.PremiumRemaining()
		resp.StandardUsed = snapshot.StandardUsed
		resp.StandardLimit = snapshot.StandardLimit
		resp.BillingCycleStart = domain.FormatISO(snapshot.BillingCycleStart)
		resp.BillingCycleEnd = domain.FormatISO(snapshot.BillingCycleEnd)
		resp.FetchedAt = domain.FormatISO(snapshot.FetchedAt)
	}

	return resp
}
