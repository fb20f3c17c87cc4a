package service

import (
	"time"

	"github.com/ideahub-dev/ideahub/internal/dates"
	"github.com/ideahub-dev/ideahub/internal/domain"
)

// Gate reasons surfaced to callers when a submission is rejected.
const (
	GateReasonNotYetOpen = "not yet open"
	GateReasonClosed     = "closed"
)

// IsOpenForSubmission decides whether new ideas and comments may be created
// right now. The same gate applies to both.
//
// The window stays open while EITHER closure threshold is still ahead:
// submissions only close once now is past both the initial and the final
// closure date. All comparisons are at calendar-day granularity.
func IsOpenForSubmission(window *domain.Closure, now time.Time) (bool, string) {
	if window == nil {
		return false, GateReasonNotYetOpen
	}
	if dates.Before(now, window.StartDate) {
		return false, GateReasonNotYetOpen
	}
	if dates.After(now, window.InitialClosureDate) && dates.After(now, window.FinalClosureDate) {
		return false, GateReasonClosed
	}
	return true, ""
}
