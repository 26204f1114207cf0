package schedule

import (
	"testing"
	"time"

	"gitlab.com/civitas-pk/civitas/internal/models"
)

func TestIntervalDays(t *testing.T) {
	if got := IntervalDays(models.FrequencyMonthly); got != 30 {
		t.Errorf("IntervalDays(monthly) = %d, want 30", got)
	}
	if got := IntervalDays(models.FrequencyBiMonthly); got != 60 {
		t.Errorf("IntervalDays(bi_monthly) = %d, want 60", got)
	}
}

// Due dates step by literal 30-day intervals, so they drift across
// month boundaries instead of landing on the same day each month.
func TestPayments(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	due := Payments(start, models.FrequencyMonthly, 3)

	if len(due) != 3 {
		t.Fatalf("Payments() returned %d entries, want 3", len(due))
	}
	want := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range due {
		if d.Cycle != i+1 {
			t.Errorf("due[%d].Cycle = %d, want %d", i, d.Cycle, i+1)
		}
		if !d.DueDate.Equal(want[i]) {
			t.Errorf("due[%d].DueDate = %v, want %v", i, d.DueDate, want[i])
		}
	}
}

func TestPaymentsBiMonthly(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	due := Payments(start, models.FrequencyBiMonthly, 2)

	if len(due) != 2 {
		t.Fatalf("Payments() returned %d entries, want 2", len(due))
	}
	second := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	if !due[1].DueDate.Equal(second) {
		t.Errorf("due[1].DueDate = %v, want %v", due[1].DueDate, second)
	}
}

func TestPayouts(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	members := []string{"admin", "second", "third"}
	turns := Payouts(start, models.FrequencyMonthly, members)

	if len(turns) != 3 {
		t.Fatalf("Payouts() returned %d turns, want 3", len(turns))
	}
	// first position pays out on the start date
	if turns[0].Position != 1 || turns[0].MemberID != "admin" || !turns[0].PayoutDate.Equal(start) {
		t.Errorf("turns[0] = %+v, want position 1, admin, %v", turns[0], start)
	}
	third := start.AddDate(0, 0, 60)
	if turns[2].Position != 3 || !turns[2].PayoutDate.Equal(third) {
		t.Errorf("turns[2] = %+v, want position 3 on %v", turns[2], third)
	}
}

func TestPayoutAmount(t *testing.T) {
	if got := PayoutAmount(5000, 8); got != 40000 {
		t.Errorf("PayoutAmount(5000, 8) = %d, want 40000", got)
	}
	// amount tracks enrolled members, not target size
	if got := PayoutAmount(5000, 3); got != 15000 {
		t.Errorf("PayoutAmount(5000, 3) = %d, want 15000", got)
	}
}
