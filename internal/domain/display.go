package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	PrefShowBar     = "showBar"
	PrefShowPercent = "showPercent"

	indicatorSegments = 5
	glyphFilled       = "▰"
	glyphEmpty        = "▱"

	tooltipTitle = "GitHub Copilot Usage"
)

type DisplayPreferences struct {
	ShowBar     bool
	ShowPercent bool
}

func DefaultDisplayPreferences() DisplayPreferences {
	return DisplayPreferences{ShowBar: true, ShowPercent: true}
}

func ValidPreferenceKey(key string) bool {
	return key == PrefShowBar || key == PrefShowPercent
}

// Percentage returns round(100*used/limit), or 0 when there is no limit.
// The result is not clamped.
func Percentage(used, limit int64) int {
	if limit <= 0 {
		return 0
	}
	return int(roundHalfUp(100 * float64(used) / float64(limit)))
}

// FilledSegments is the number of filled glyphs for percent, always in [0, 5].
// The bar grows with usage.
func FilledSegments(percent int) int {
	clamped := min(max(percent, 0), 100)
	return int(roundHalfUp(float64(clamped) / 100 * indicatorSegments))
}

// IndicatorText builds the status text, e.g. " ▰▰▱▱▱ 45%". The glyph bar uses
// the clamped percent while the number shows the value it was given.
func IndicatorText(percent int, prefs DisplayPreferences) string {
	filled := FilledSegments(percent)
	bar := strings.Repeat(glyphFilled, filled) + strings.Repeat(glyphEmpty, indicatorSegments-filled)

	var b strings.Builder
	b.WriteString(" ")
	if prefs.ShowBar {
		b.WriteString(bar)
	}
	if prefs.ShowBar && prefs.ShowPercent {
		b.WriteString(" ")
	}
	if prefs.ShowPercent {
		fmt.Fprintf(&b, "%d%%", percent)
	}
	return b.String()
}

func Tooltip(text string) string {
	if strings.TrimSpace(text) == "" {
		return tooltipTitle
	}
	return tooltipTitle + " - " + text
}

type MenuAction string

const (
	MenuActionRefresh         MenuAction = "refresh"
	MenuActionShow            MenuAction = "show"
	MenuActionToggleAutostart MenuAction = "toggle-autostart"
	MenuActionQuit            MenuAction = "quit"
)

type MenuItem struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text,omitempty"`
	Enabled   bool   `json:"enabled"`
	Separator bool   `json:"separator,omitempty"`
}

type Menu struct {
	Items []MenuItem `json:"items"`
}

// Actions returns the enabled items in menu order.
func (m Menu) Actions() []MenuItem {
	actions := make([]MenuItem, 0, len(m.Items))
	for _, item := range m.Items {
		if item.Enabled && !item.Separator {
			actions = append(actions, item)
		}
	}
	return actions
}

// MenuSummary describes the indicator menu. Remaining is passed through
// unclamped so overuse shows as a negative number.
func MenuSummary(snapshot *UsageSnapshot) Menu {
	items := make([]MenuItem, 0, 8)
	if snapshot != nil {
		items = append(items,
			MenuItem{ID: "usage_header", Text: "Premium Requests"},
			MenuItem{ID: "usage_used", Text: fmt.Sprintf("  Used: %d / %d", snapshot.PremiumUsed, snapshot.PremiumLimit)},
			MenuItem{ID: "usage_remaining", Text: fmt.Sprintf("  Remaining: %d", snapshot.PremiumRemaining())},
			MenuItem{Separator: true},
		)
	}

	items = append(items,
		MenuItem{ID: string(MenuActionRefresh), Text: "Refresh", Enabled: true},
		MenuItem{ID: string(MenuActionShow), Text: "Show App", Enabled: true},
		MenuItem{ID: string(MenuActionToggleAutostart), Text: "Start at Login", Enabled: true},
		MenuItem{ID: string(MenuActionQuit), Text: "Quit", Enabled: true},
	)

	return Menu{Items: items}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
