// Package schedule derives payment due dates and the payout queue from
// committee parameters. Every function is pure: schedules are recomputed
// on demand, never stored.
package schedule

import (
	"time"

	"gitlab.com/civitas-pk/civitas/internal/models"
)

// IntervalDays returns the contribution cycle length for a frequency.
// Stepping is literal day arithmetic, not calendar months: a "monthly"
// committee collects every 30 days regardless of month length.
func IntervalDays(freq models.PaymentFrequency) int {
	if freq == models.FrequencyBiMonthly {
		return 60
	}
	return 30
}

type PaymentDue struct {
	Cycle   int
	DueDate time.Time
}

// Payments returns one due date per cycle, duration entries in total.
// Cycle numbers are 1-based; the first cycle is due on the start date.
func Payments(start time.Time, freq models.PaymentFrequency, duration int) []PaymentDue {
	interval := IntervalDays(freq)
	due := make([]PaymentDue, 0, duration)
	for cycle := 0; cycle < duration; cycle++ {
		due = append(due, PaymentDue{
			Cycle:   cycle + 1,
			DueDate: start.AddDate(0, 0, interval*cycle),
		})
	}
	return due
}

type PayoutTurn struct {
	Position   int
	MemberID   string
	PayoutDate time.Time
}

// Payouts maps the ordered member list onto payout dates. memberIDs must
// be sorted by membership position, so memberIDs[0] is the committee
// admin: the member assuming administrative risk takes the first payout.
func Payouts(start time.Time, freq models.PaymentFrequency, memberIDs []string) []PayoutTurn {
	interval := IntervalDays(freq)
	turns := make([]PayoutTurn, 0, len(memberIDs))
	for i, memberID := range memberIDs {
		position := i + 1
		turns = append(turns, PayoutTurn{
			Position:   position,
			MemberID:   memberID,
			PayoutDate: start.AddDate(0, 0, interval*(position-1)),
		})
	}
	return turns
}

// PayoutAmount is the full pool collected in one cycle. It scales with
// the members actually enrolled at disbursement time, not the committee's
// target size.
func PayoutAmount(monthlyAmount, currentMembers int) int {
	return monthlyAmount * currentMembers
}
