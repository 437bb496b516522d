package application

import (
	"fmt"
	"strings"

	"github.com/bnema/copilot-usage/internal/domain"
)

var preferenceAliases = map[string]string{
	"bar":             domain.PrefShowBar,
	"show_bar":        domain.PrefShowBar,
	"showbar":         domain.PrefShowBar,
	"percent":         domain.PrefShowPercent,
	"show_percent":    domain.PrefShowPercent,
	"showpercent":     domain.PrefShowPercent,
	"percentage":      domain.PrefShowPercent,
	"show_percentage": domain.PrefShowPercent,
}

// ParsePreferenceKey maps a user supplied preference name onto a stored key.
func ParsePreferenceKey(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "-", "_")))
	if key, ok := preferenceAliases[normalized]; ok {
		return key, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownPreference, name)
}
