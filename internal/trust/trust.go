// Package trust computes the bounded reputation score that gates
// committee participation. The score blends payment consistency,
// committee completion and account tenure over a base of 50.
package trust

import (
	"time"

	"gitlab.com/civitas-pk/civitas/internal/models"
)

const (
	baseScore     = 50
	paymentMax    = 40
	completionMax = 30
	tenureMax     = 20
)

type PaymentRecord struct {
	Status      models.PaymentStatus
	PaymentDate time.Time
	DueDate     time.Time
}

type CommitteeRecord struct {
	Status models.CommitteeStatus
}

type Inputs struct {
	Payments       []PaymentRecord
	Committees     []CommitteeRecord
	AccountCreated time.Time
	Now            time.Time
}

// Score returns the trust score in [0,100]. Accounts with no payments
// and no committees short-circuit to the bootstrap default instead of
// the formula's raw base, so brand-new users aren't penalized.
func Score(in Inputs) int {
	if len(in.Payments) == 0 && len(in.Committees) == 0 {
		return models.DefaultTrustScore
	}

	total := baseScore +
		paymentComponent(in.Payments) +
		completionComponent(in.Committees) +
		tenureComponent(in.AccountCreated, in.Now)

	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return total
}

// paymentComponent awards up to 25 points for the paid ratio and up to
// 15 for the on-time ratio among paid payments.
func paymentComponent(payments []PaymentRecord) int {
	if len(payments) == 0 {
		return 0
	}
	paid := 0
	onTime := 0
	for _, p := range payments {
		if p.Status != models.PaymentPaid {
			continue
		}
		paid++
		if !p.PaymentDate.After(p.DueDate) {
			onTime++
		}
	}
	paidRatio := float64(paid) / float64(len(payments))
	onTimeRatio := 0.0
	if paid > 0 {
		onTimeRatio = float64(onTime) / float64(paid)
	}
	return int(paidRatio*25 + onTimeRatio*15)
}

// completionComponent awards up to 20 points for the completed ratio
// plus 2 per currently active committee, capped at 10.
func completionComponent(committees []CommitteeRecord) int {
	if len(committees) == 0 {
		return 0
	}
	completed := 0
	active := 0
	for _, c := range committees {
		switch c.Status {
		case models.StatusCompleted:
			completed++
		case models.StatusActive:
			active++
		}
	}
	completionRatio := float64(completed) / float64(len(committees))
	activeBonus := active * 2
	if activeBonus > 10 {
		activeBonus = 10
	}
	return int(completionRatio*20) + activeBonus
}

// tenureComponent awards 1 point per 30 days of account age, capped at 20.
func tenureComponent(created, now time.Time) int {
	if created.IsZero() || now.Before(created) {
		return 0
	}
	months := int(now.Sub(created).Hours() / 24 / 30)
	if months > tenureMax {
		return tenureMax
	}
	return months
}
