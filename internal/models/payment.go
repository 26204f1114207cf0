package models

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment records one cycle's contribution by one member.
type Payment struct {
	ID            string
	CommitteeID   string
	UserID        string
	Amount        int
	PaymentDate   time.Time
	DueDate       time.Time
	Status        PaymentStatus
	PaymentMethod string
	TransactionID *string
}

func (p *Payment) OnTime() bool {
	return !p.PaymentDate.After(p.DueDate)
}

// Payout records the lump-sum disbursement to the member whose turn
// has arrived. Amount is recomputed at disbursement time from the
// committee's current membership, never cached at creation.
type Payout struct {
	ID           string
	CommitteeID  string
	UserID       string
	Amount       int
	PayoutDate   time.Time
	Status       PaymentStatus
	PayoutMethod string
}

type PaymentReq struct {
	Amount        int
	DueDate       time.Time
	PaymentMethod string
}

func (r *PaymentReq) Validate() error {
	if r.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if r.PaymentMethod == "" {
		return &ValidationError{Field: "payment_method", Reason: "must not be empty"}
	}
	return nil
}

// PayoutNotice tells a member at the head of a payout queue what to expect.
type PayoutNotice struct {
	CommitteeID    string
	CommitteeTitle string
	Amount         int
}
