package models

import "time"

type CommitteeType string

const (
	CommitteePublic  CommitteeType = "public"
	CommitteePrivate CommitteeType = "private"
)

type PaymentFrequency string

const (
	FrequencyMonthly   PaymentFrequency = "monthly"
	FrequencyBiMonthly PaymentFrequency = "bi_monthly"
)

type CommitteeStatus string

const (
	StatusActive    CommitteeStatus = "active"
	StatusPaused    CommitteeStatus = "paused"
	StatusCompleted CommitteeStatus = "completed"
	StatusCancelled CommitteeStatus = "cancelled"
)

// MinMonthlyAmount is the smallest viable contribution in PKR.
const MinMonthlyAmount = 1000

type Committee struct {
	ID               string
	Title            string
	Description      *string
	MonthlyAmount    int
	TotalMembers     int
	CurrentMembers   int
	Duration         int
	CommitteeType    CommitteeType
	Category         string
	PaymentFrequency PaymentFrequency
	Status           CommitteeStatus
	AdminID          string
	CreatedDate      time.Time
}

// Membership ties a user to a committee. Position is the 1-based payout
// queue rank, dense within a committee; the admin always holds position 1.
type Membership struct {
	ID          string
	CommitteeID string
	UserID      string
	Position    int
	JoinedDate  time.Time
}

// MemberView joins membership rows with user data for listing.
type MemberView struct {
	UserID     string
	Username   string
	FullName   string
	TrustScore int
	Position   int
	JoinedDate time.Time
}

type CommitteeReq struct {
	Title            string
	Description      *string
	MonthlyAmount    int
	TotalMembers     int
	Duration         int
	CommitteeType    CommitteeType
	Category         string
	PaymentFrequency PaymentFrequency
}

func (r *CommitteeReq) Validate() error {
	if r.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if r.MonthlyAmount < MinMonthlyAmount {
		return &ValidationError{Field: "monthly_amount", Reason: "must be at least Rs. 1000"}
	}
	if r.TotalMembers < 2 {
		return &ValidationError{Field: "total_members", Reason: "must be at least 2"}
	}
	if r.Duration < 1 {
		return &ValidationError{Field: "duration", Reason: "must be at least 1 month"}
	}
	if r.CommitteeType != CommitteePublic && r.CommitteeType != CommitteePrivate {
		return &ValidationError{Field: "committee_type", Reason: "must be public or private"}
	}
	if r.PaymentFrequency != FrequencyMonthly && r.PaymentFrequency != FrequencyBiMonthly {
		return &ValidationError{Field: "payment_frequency", Reason: "must be monthly or bi_monthly"}
	}
	return nil
}

type CommitteeSettings struct {
	Title            string
	Description      *string
	Status           CommitteeStatus
	PaymentFrequency PaymentFrequency
	Category         string
	CommitteeType    CommitteeType
}

// CanTransition reports whether an admin may move a committee from one
// status to another. Completed and cancelled are terminal. There is no
// automatic time-based completion; every transition is an admin action.
func CanTransition(from, to CommitteeStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusActive:
		return to == StatusPaused || to == StatusCompleted || to == StatusCancelled
	case StatusPaused:
		return to == StatusActive || to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}
