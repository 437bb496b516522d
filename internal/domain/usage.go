package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// isoMillis matches the ISO-8601 form used for billing dates in output.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type UsageSnapshot struct {
	PremiumUsed       int64
	PremiumLimit      int64
	StandardUsed      int64
	StandardLimit     int64
	BillingCycleStart time.Time
	BillingCycleEnd   time.Time
	FetchedAt         time.Time
}

func (s UsageSnapshot) PremiumRemaining() int64 {
	return s.PremiumLimit - s.PremiumUsed
}

func (s UsageSnapshot) PremiumPercent() int {
	return Percentage(s.PremiumUsed, s.PremiumLimit)
}

// FormatISO renders t as ISO-8601 UTC, or "" for the zero time.
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoMillis)
}

// Candidate paths, tried in order; the first present, non-null value wins.
var (
	quotaContainerPaths = [][]string{
		{"userInfo", "quota_snapshots"},
		{"quota_snapshots"},
		{"user_info", "quota_snapshots"},
	}
	bucketLimitPaths     = [][]string{{"entitlement"}, {"remaining"}, {"quota_remaining"}}
	bucketRemainingPaths = [][]string{{"remaining"}, {"quota_remaining"}}
	billingStartPaths    = [][]string{
		{"billing_cycle_start"},
		{"userInfo", "billing_cycle_start"},
	}
	billingEndPaths = [][]string{
		{"quota_reset_date"},
		{"userInfo", "quota_reset_date"},
		{"quota_reset_date_utc"},
	}
)

const (
	premiumBucket  = "premium_interactions"
	standardBucket = "completions"
)

// ParseUsage turns the raw usage document into a snapshot. Missing or oddly
// typed fields become zero values; only a document that is not a JSON object
// is rejected.
func ParseUsage(raw []byte, fetchedAt time.Time) (UsageSnapshot, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return UsageSnapshot{}, fmt.Errorf("%w: decode usage payload: %v", ErrMalformedResponse, err)
	}
	// Any other JSON shape reads as a payload with every field missing.
	doc, _ := payload.(map[string]any)

	var premium, standard map[string]any
	if container, ok := lookupFirst(doc, quotaContainerPaths).(map[string]any); ok {
		premium, _ = container[premiumBucket].(map[string]any)
		standard, _ = container[standardBucket].(map[string]any)
	}

	premiumUsed, premiumLimit := bucketUsage(premium)
	standardUsed, standardLimit := bucketUsage(standard)

	return UsageSnapshot{
		PremiumUsed:       premiumUsed,
		PremiumLimit:      premiumLimit,
		StandardUsed:      standardUsed,
		StandardLimit:     standardLimit,
		BillingCycleStart: toTime(lookupFirst(doc, billingStartPaths)),
		BillingCycleEnd:   toTime(lookupFirst(doc, billingEndPaths)),
		FetchedAt:         fetchedAt,
	}, nil
}

func bucketUsage(bucket map[string]any) (used int64, limit int64) {
	if bucket == nil {
		return 0, 0
	}

	limit = max(0, toInt(lookupFirst(bucket, bucketLimitPaths)))
	remaining := toInt(lookupFirst(bucket, bucketRemainingPaths))

	// Overuse shows up as a negative remaining; saturate instead of overflowing.
	if remaining < 0 && limit > math.MaxInt64+remaining {
		return math.MaxInt64, limit
	}
	return max(0, limit-remaining), limit
}

func lookupFirst(doc map[string]any, paths [][]string) any {
	for _, path := range paths {
		if value, ok := lookupPath(doc, path); ok {
			return value
		}
	}
	return nil
}

func lookupPath(doc map[string]any, path []string) (any, bool) {
	var current any = doc
	for _, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func toInt(value any) int64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if v {
			f = 1
		}
	default:
		return 0
	}

	if math.IsNaN(f) {
		return 0
	}
	f = math.Round(f)
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func toTime(value any) time.Time {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.Abs(v) >= math.MaxInt64 {
			return time.Time{}
		}
		return time.UnixMilli(int64(v)).UTC()
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC()
			}
		}
	}
	return time.Time{}
}
