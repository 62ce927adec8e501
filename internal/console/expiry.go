// ABOUTME: License expiry helpers for the instances list
// ABOUTME: Counts days left and classifies licenses as ok, expiring, or expired

package console

import (
	"fmt"
	"math"
	"time"
)

// ExpiringWindow is how many days ahead a license counts as expiring soon
const ExpiringWindow = 7

// ExpiryState classifies a license by days remaining
type ExpiryState string

const (
	ExpiryUnknown  ExpiryState = ""
	ExpiryOK       ExpiryState = "ok"
	ExpiryExpiring ExpiryState = "expiring"
	ExpiryExpired  ExpiryState = "expired"
)

// timestampLayouts are the forms the API uses for license dates
var timestampLayouts = []string{
	time.RFC3339Nano,
	DateLayout,
}

// ParseTimestamp parses an API date or timestamp
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysLeft returns the number of days until expire, rounded up, and false
// when expire cannot be parsed.
func DaysLeft(expire string, now time.Time) (int, bool) {
	t, ok := ParseTimestamp(expire)
	if !ok {
		return 0, false
	}
	days := t.Sub(now).Hours() / 24
	return int(math.Ceil(days)), true
}

// StateFor classifies days remaining
func StateFor(days int) ExpiryState {
	switch {
	case days <= 0:
		return ExpiryExpired
	case days <= ExpiringWindow:
		return ExpiryExpiring
	default:
		return ExpiryOK
	}
}

// Expiry returns the state and days left for an expire timestamp
func Expiry(expire string, now time.Time) (ExpiryState, int) {
	days, ok := DaysLeft(expire, now)
	if !ok {
		return ExpiryUnknown, 0
	}
	return StateFor(days), days
}

// ExpiryNote is the warning shown next to a license range, or ""
func ExpiryNote(state ExpiryState, days int) string {
	switch state {
	case ExpiryExpiring:
		return fmt.Sprintf("Expiring Soon (%d days)", days)
	case ExpiryExpired:
		return "Expired"
	default:
		return ""
	}
}

// LicenseRange renders "start → expire" using the date part of each
func LicenseRange(start, expire string) string {
	return fmt.Sprintf("%s → %s", datePart(start), datePart(expire))
}
