package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation lets a private committee's admin offer a seat to a user.
// Terminal once accepted or rejected; at most one pending invitation
// may exist per (committee, user) pair.
type Invitation struct {
	ID             string
	CommitteeID    string
	InvitedUserID  string
	InvitedByID    string
	Status         InvitationStatus
	InvitationDate time.Time
	ResponseDate   *time.Time
	Message        *string
}

// InvitationView is the user-facing listing with committee context joined in.
type InvitationView struct {
	ID                string
	CommitteeID       string
	CommitteeTitle    string
	InvitedByID       string
	InvitedByUsername string
	InvitationDate    time.Time
	Message           *string
}

// CommitteeInvitationView is the admin-facing listing for one committee.
type CommitteeInvitationView struct {
	ID              string
	InvitedUsername string
	Status          InvitationStatus
	InvitationDate  time.Time
	ResponseDate    *time.Time
}
