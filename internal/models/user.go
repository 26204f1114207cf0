package models

import "time"

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// DefaultTrustScore is assigned to every new account. New users start
// above the formula's base so they aren't locked out of committees
// before building any history.
const DefaultTrustScore = 85

type User struct {
	ID          string
	Username    string
	FullName    string
	Email       string
	Phone       string
	Role        UserRole
	Cnic        *string
	TrustScore  int
	CreatedDate time.Time
}

// UserSummary is the reduced projection shown in invitation pickers.
type UserSummary struct {
	ID         string
	Username   string
	TrustScore int
}

type UserReq struct {
	Username string
	FullName string
	Email    string
	Phone    string
	Role     UserRole
	Cnic     *string
}

func (r *UserReq) Validate() error {
	if r.Username == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if r.FullName == "" {
		return &ValidationError{Field: "full_name", Reason: "must not be empty"}
	}
	if r.Role != RoleMember && r.Role != RoleAdmin {
		return &ValidationError{Field: "role", Reason: "must be member or admin"}
	}
	return nil
}

type ProfileUpdate struct {
	FullName string
	Email    string
	Phone    string
	Cnic     *string
}

// TrustEvent is one entry of the append-only trust score audit trail.
type TrustEvent struct {
	ID          int
	UserID      string
	OldScore    int
	NewScore    int
	Reason      string
	CommitteeID *string
	CreatedAt   time.Time
}
