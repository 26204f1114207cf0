package trust

import (
	"testing"
	"time"

	"gitlab.com/civitas-pk/civitas/internal/models"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func paid(onTime bool) PaymentRecord {
	due := now.AddDate(0, 0, -10)
	paymentDate := due
	if !onTime {
		paymentDate = due.AddDate(0, 0, 3)
	}
	return PaymentRecord{
		Status:      models.PaymentPaid,
		PaymentDate: paymentDate,
		DueDate:     due,
	}
}

func pending() PaymentRecord {
	return PaymentRecord{Status: models.PaymentPending, DueDate: now}
}

func TestScoreBootstrap(t *testing.T) {
	in := Inputs{AccountCreated: now, Now: now}
	if got := Score(in); got != models.DefaultTrustScore {
		t.Errorf("Score(no history) = %d, want %d", got, models.DefaultTrustScore)
	}
}

// A single pending payment means the account has history, so the
// formula applies and the score drops to the bare base.
func TestScorePendingOnly(t *testing.T) {
	in := Inputs{
		Payments:       []PaymentRecord{pending()},
		AccountCreated: now,
		Now:            now,
	}
	if got := Score(in); got != 50 {
		t.Errorf("Score(one pending payment) = %d, want 50", got)
	}
}

func TestScoreComposite(t *testing.T) {
	// 2 of 4 paid, both on time: int(0.5*25 + 1.0*15) = 27
	// 1 of 2 committees completed, 1 active: int(0.5*20) + 2 = 12
	// 65 days tenure: 2
	in := Inputs{
		Payments:       []PaymentRecord{paid(true), paid(true), pending(), pending()},
		Committees:     []CommitteeRecord{{Status: models.StatusCompleted}, {Status: models.StatusActive}},
		AccountCreated: now.AddDate(0, 0, -65),
		Now:            now,
	}
	if got := Score(in); got != 91 {
		t.Errorf("Score() = %d, want 91", got)
	}
}

func TestScoreClampedAt100(t *testing.T) {
	in := Inputs{
		Payments:       []PaymentRecord{paid(true), paid(true), paid(true)},
		Committees:     []CommitteeRecord{{Status: models.StatusCompleted}, {Status: models.StatusActive}, {Status: models.StatusActive}},
		AccountCreated: now.AddDate(-3, 0, 0),
		Now:            now,
	}
	if got := Score(in); got != 100 {
		t.Errorf("Score(perfect history) = %d, want 100", got)
	}
}

func TestScoreLatePaymentsLoseOnTimePoints(t *testing.T) {
	in := Inputs{
		Payments:       []PaymentRecord{paid(false), paid(false)},
		AccountCreated: now,
		Now:            now,
	}
	// all paid but late: 25 + 0
	if got := Score(in); got != 75 {
		t.Errorf("Score(all late) = %d, want 75", got)
	}
}

func TestTenureComponent(t *testing.T) {
	if got := tenureComponent(now.AddDate(0, 0, -700), now); got != 20 {
		t.Errorf("tenureComponent(700 days) = %d, want cap 20", got)
	}
	if got := tenureComponent(now.AddDate(0, 0, -29), now); got != 0 {
		t.Errorf("tenureComponent(29 days) = %d, want 0", got)
	}
	if got := tenureComponent(now.AddDate(0, 0, 5), now); got != 0 {
		t.Errorf("tenureComponent(future account) = %d, want 0", got)
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score int
		level Level
	}{
		{100, LevelExcellent},
		{95, LevelExcellent},
		{94, LevelVeryGood},
		{85, LevelVeryGood},
		{84, LevelGood},
		{75, LevelGood},
		{74, LevelFair},
		{60, LevelFair},
		{59, LevelNeedsImprovement},
		{0, LevelNeedsImprovement},
	}
	for _, c := range cases {
		if got := LevelFor(c.score); got.Level != c.level {
			t.Errorf("LevelFor(%d) = %s, want %s", c.score, got.Level, c.level)
		}
	}
}

func TestRecommendations(t *testing.T) {
	if got := Recommendations(90); len(got) != 1 {
		t.Errorf("Recommendations(90) has %d entries, want 1", len(got))
	}
	if got := Recommendations(80); len(got) != 1 {
		t.Errorf("Recommendations(80) has %d entries, want 1", len(got))
	}
	if got := Recommendations(70); len(got) != 3 {
		t.Errorf("Recommendations(70) has %d entries, want 3", len(got))
	}
	if got := Recommendations(50); len(got) != 5 {
		t.Errorf("Recommendations(50) has %d entries, want 5", len(got))
	}
}
