package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validCommitteeReq() CommitteeReq {
	return CommitteeReq{
		Title:            "Office Committee",
		MonthlyAmount:    5000,
		TotalMembers:     10,
		Duration:         10,
		CommitteeType:    CommitteePublic,
		Category:         "General",
		PaymentFrequency: FrequencyMonthly,
	}
}

func TestCommitteeReqValidate(t *testing.T) {
	require := require.New(t)

	req := validCommitteeReq()
	require.NoError(req.Validate())

	req = validCommitteeReq()
	req.Title = ""
	require.Error(req.Validate())

	req = validCommitteeReq()
	req.MonthlyAmount = MinMonthlyAmount - 1
	require.Error(req.Validate())

	req = validCommitteeReq()
	req.TotalMembers = 1
	require.Error(req.Validate())

	req = validCommitteeReq()
	req.Duration = 0
	require.Error(req.Validate())

	req = validCommitteeReq()
	req.CommitteeType = "secret"
	require.Error(req.Validate())

	req = validCommitteeReq()
	req.PaymentFrequency = "weekly"
	require.Error(req.Validate())
}

func TestCanTransition(t *testing.T) {
	require := require.New(t)

	require.True(CanTransition(StatusActive, StatusPaused))
	require.True(CanTransition(StatusActive, StatusCompleted))
	require.True(CanTransition(StatusActive, StatusCancelled))
	require.True(CanTransition(StatusPaused, StatusActive))
	require.True(CanTransition(StatusPaused, StatusCompleted))
	require.True(CanTransition(StatusPaused, StatusCancelled))

	// terminal states stay terminal
	require.False(CanTransition(StatusCompleted, StatusActive))
	require.False(CanTransition(StatusCancelled, StatusActive))
	require.False(CanTransition(StatusCompleted, StatusPaused))

	// no self transitions
	require.False(CanTransition(StatusActive, StatusActive))
	require.False(CanTransition(StatusPaused, StatusPaused))
}

func TestPaymentOnTime(t *testing.T) {
	require := require.New(t)
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	p := Payment{PaymentDate: due.AddDate(0, 0, -1), DueDate: due}
	require.True(p.OnTime())

	p = Payment{PaymentDate: due, DueDate: due}
	require.True(p.OnTime())

	p = Payment{PaymentDate: due.AddDate(0, 0, 1), DueDate: due}
	require.False(p.OnTime())
}

func TestUserReqValidate(t *testing.T) {
	require := require.New(t)

	req := UserReq{Username: "ahmed", FullName: "Ahmed Khan", Role: RoleMember}
	require.NoError(req.Validate())

	req = UserReq{Username: "", FullName: "Ahmed Khan", Role: RoleMember}
	require.Error(req.Validate())

	req = UserReq{Username: "ahmed", FullName: "", Role: RoleMember}
	require.Error(req.Validate())

	req = UserReq{Username: "ahmed", FullName: "Ahmed Khan", Role: "superuser"}
	require.Error(req.Validate())
}
