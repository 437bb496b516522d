package terminal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

const barWidth = 24

type RenderOptions struct {
	Now  time.Time
	Flow *application.FlowStatus
}

func renderView(state application.UsageState, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(domain.Tooltip("")),
	}
	if strings.TrimSpace(state.Text) != "" {
		lines = append(lines, s.indicator.Render(strings.TrimSpace(state.Text)))
	}

	if flow := flowLines(opts.Flow, s); len(flow) > 0 {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, flow...)))
	}

	if state.Snapshot == nil {
		switch {
		case state.Err != nil:
			lines = append(lines, s.section.Render(s.warning.Render("Refresh failed: "+state.Err.Error())))
		case state.Refreshing:
			lines = append(lines, s.section.Render(s.empty.Render("Fetching usage...")))
		default:
			lines = append(lines, s.section.Render(s.empty.Render("No usage data. Sign in with `cu auth login`.")))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, usageLines(state, opts, s)...)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func usageLines(state application.UsageState, opts RenderOptions, s styles) []string {
	snapshot := state.Snapshot
	lines := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.label.Render("premium:"),
			" ",
			renderProgressBar(state.Percent, barWidth, s),
			" ",
			s.detail.Render(fmt.Sprintf("%d%% (%s / %s, %s left)",
				state.Percent,
				humanize.Comma(snapshot.PremiumUsed),
				humanize.Comma(snapshot.PremiumLimit),
				humanize.Comma(snapshot.PremiumRemaining()),
			)),
		),
	}

	if snapshot.StandardLimit > 0 {
		lines = append(lines, s.label.Render("completions:")+" "+s.detail.Render(fmt.Sprintf("%s / %s",
			humanize.Comma(snapshot.StandardUsed), humanize.Comma(snapshot.StandardLimit))))
	}

	if reset := formatReset(snapshot.BillingCycleEnd, opts.Now); reset != "" {
		lines = append(lines, s.meta.Render(reset))
	}

	updated := formatUpdated(state.UpdatedAt, opts.Now)
	if state.Refreshing {
		updated += ", refreshing..."
	}
	if updated != "" {
		lines = append(lines, s.meta.Render(updated))
	}

	if state.Stale() {
		lines = append(lines, s.warning.Render("[stale] ")+s.detail.Render(state.Err.Error()))
	}

	return lines
}

func flowLines(flow *application.FlowStatus, s styles) []string {
	if flow == nil {
		return nil
	}

	switch flow.State {
	case domain.FlowStarting:
		return []string{s.detail.Render("Requesting device code...")}
	case domain.FlowAwaitingUserAction, domain.FlowPolling:
		if flow.Session == nil {
			return nil
		}
		return []string{
			s.detail.Render("Open ") + s.label.Render(flow.Session.VerificationURI) + s.detail.Render(" and enter"),
			s.code.Render(flow.Session.UserCode),
			s.meta.Render("Waiting for authorization..."),
		}
	case domain.FlowFailed, domain.FlowTimedOut:
		if flow.Err != nil {
			return []string{s.warning.Render(flow.Err.Error())}
		}
	}
	return nil
}

// renderProgressBar fills with usage. Past 100% the bar is drawn full in the
// warning colour.
func renderProgressBar(percent int, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(float64(percent))
	filled := int(math.Round(float64(width) * used / 100))
	filled = min(max(filled, 0), width)

	fill := s.barFill
	if percent >= 100 {
		fill = s.barOver
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatReset(resetsAt, now time.Time) string {
	if resetsAt.IsZero() {
		return ""
	}
	if now.IsZero() {
		return "quota resets " + resetsAt.Format("02 Jan 2006")
	}
	if !resetsAt.After(now) {
		return "quota reset " + resetsAt.Format("02 Jan 2006")
	}
	return fmt.Sprintf("quota resets %s (%s)", humanize.RelTime(resetsAt, now, "ago", "from now"), resetsAt.Format("02 Jan"))
}

func formatUpdated(updatedAt, now time.Time) string {
	if updatedAt.IsZero() {
		return ""
	}
	if now.IsZero() {
		return "updated " + updatedAt.Format(time.RFC3339)
	}
	return "updated " + humanize.RelTime(updatedAt, now, "ago", "from now")
}
