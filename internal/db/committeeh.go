package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"gitlab.com/civitas-pk/civitas/internal/models"
	"gitlab.com/civitas-pk/civitas/internal/schedule"
)

var (
	errInvitationGone = errors.New("invitation is not pending")
	errCommitteeFull  = errors.New("committee is full")
)

type committeePerms struct {
	Read   bool
	Manage bool
}

// CommitteeH is a capability handle over one committee. Manage is held
// only by the committee's admin.
type CommitteeH struct {
	sharedDB DBTX
	raw      *models.Committee
	perms    committeePerms
	userH    *UserH
	trustSvc *trustScoreService
}

func (h *CivitasH) GetCommitteeH(ctx context.Context, committeeID string) (*CommitteeH, error) {
	raw, err := readRawCommittee(ctx, h.sharedDB, committeeID)
	if err != nil {
		return nil, err
	}

	perms := committeePerms{}
	if raw.CommitteeType == models.CommitteePublic {
		perms.Read = true
	}
	if h.userH != nil {
		if h.userH.id == raw.AdminID {
			perms.Manage = true
			perms.Read = true
		} else if !perms.Read {
			pos, err := memberPosition(ctx, h.sharedDB, committeeID, h.userH.id)
			if err != nil {
				return nil, err
			}
			perms.Read = pos > 0
		}
	}
	if !perms.Read {
		return nil, models.ErrPermDenied
	}

	return &CommitteeH{
		sharedDB: h.sharedDB,
		raw:      raw,
		perms:    perms,
		userH:    h.userH,
		trustSvc: h.trustSvc,
	}, nil
}

func (h *CommitteeH) ID() string {
	return h.raw.ID
}

// Read returns the committee's current row. current_members is always
// re-read, never served from the handle's snapshot.
func (h *CommitteeH) Read(ctx context.Context) (*models.Committee, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	return readRawCommittee(ctx, h.sharedDB, h.raw.ID)
}

// Join enrolls the current user at the next payout position. Returns
// (false, nil) when the committee is full or the user is already a
// member; those are user-correctable conditions, not system faults.
// Private committees are joined through invitations only.
func (h *CommitteeH) Join(ctx context.Context) (bool, error) {
	if h.userH == nil {
		return false, models.ErrPermDenied
	}
	if h.raw.CommitteeType == models.CommitteePrivate && !h.perms.Manage {
		return false, models.ErrPermDenied
	}

	joined := false
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		var err error
		joined, err = joinLocked(ctx, tx, h.raw.ID, h.userH.id)
		return err
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}

// joinLocked is the single place where memberships are created. It takes
// a row lock on the committee so concurrent joins serialize: the capacity
// check, the duplicate check, the position assignment and the
// member-count increment are one atomic unit, and two racing joins on
// the last slot cannot both win. The duplicate check must happen before
// the INSERT: letting the unique constraint fire would abort the whole
// transaction, and postgres turns the following COMMIT into a ROLLBACK.
func joinLocked(ctx context.Context, tx DBTX, committeeID string, userID string) (bool, error) {
	row := tx.QueryRow(ctx,
		"SELECT current_members, total_members FROM committees WHERE id = $1 FOR UPDATE",
		committeeID)

	var current, total int
	err := row.Scan(&current, &total)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, models.ErrNotFound
		}
		return false, err
	}
	if current >= total {
		return false, nil
	}

	pos, err := memberPosition(ctx, tx, committeeID, userID)
	if err != nil {
		return false, err
	}
	if pos > 0 {
		return false, nil
	}

	err = insertMember(ctx, tx, committeeID, userID, current+1)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE committees SET current_members = current_members + 1 WHERE id = $1",
		committeeID)
	if err != nil {
		return false, err
	}
	return true, nil
}

func insertMember(ctx context.Context, db DBTX, committeeID string, userID string, position int) error {
	sql, args, _ := psql.
		Insert("committee_members").
		Columns("id", "committee_id", "user_id", "position").
		Values(uuid.New().String(), committeeID, userID, position).
		ToSql()

	_, err := db.Exec(ctx, sql, args...)
	return err
}

// ListMembers returns the payout queue: members ordered by position.
func (h *CommitteeH) ListMembers(ctx context.Context) ([]models.MemberView, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	members := []models.MemberView{}
	sql, args, _ := psql.
		Select(
			"committee_members.user_id",
			"users.username",
			"users.full_name",
			"users.trust_score",
			"committee_members.position",
			"committee_members.joined_date",
		).
		From("committee_members").
		Join("users ON committee_members.user_id = users.id").
		Where(sq.Eq{"committee_members.committee_id": h.raw.ID}).
		OrderBy("committee_members.position").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &members, sql, args...)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// MemberPosition returns a member's rank in the payout queue, 0 when the
// user is not a member.
func (h *CommitteeH) MemberPosition(ctx context.Context, userID string) (int, error) {
	if !h.perms.Read {
		return 0, models.ErrPermDenied
	}
	return memberPosition(ctx, h.sharedDB, h.raw.ID, userID)
}

func memberPosition(ctx context.Context, db DBTX, committeeID string, userID string) (int, error) {
	sql, args, _ := psql.
		Select("position").
		From("committee_members").
		Where(sq.Eq{"committee_id": committeeID, "user_id": userID}).
		ToSql()

	var position int
	row := db.QueryRow(ctx, sql, args...)
	err := row.Scan(&position)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return position, nil
}

// SendInvitation offers a seat in a private committee. Only the admin
// may invite; duplicate pending invitations for the same user come back
// as (false, nil).
func (h *CommitteeH) SendInvitation(ctx context.Context, invitedUserID string, message *string) (bool, error) {
	if !h.perms.Manage {
		return false, models.ErrPermDenied
	}
	if h.raw.CommitteeType != models.CommitteePrivate {
		return false, &models.ValidationError{Field: "committee_type", Reason: "invitations apply to private committees only"}
	}

	sql, args, _ := psql.
		Insert("committee_invitations").
		Columns("id", "committee_id", "invited_user_id", "invited_by_id", "status", "message").
		Values(uuid.New().String(), h.raw.ID, invitedUserID, h.userH.id, models.InvitationPending, message).
		ToSql()

	_, err := h.sharedDB.Exec(ctx, sql, args...)
	if isConstraintErr(err, "committee_invitations_pending_key") {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListInvitations returns every invitation ever sent for this committee.
func (h *CommitteeH) ListInvitations(ctx context.Context) ([]models.CommitteeInvitationView, error) {
	if !h.perms.Manage {
		return nil, models.ErrPermDenied
	}
	invitations := []models.CommitteeInvitationView{}
	sql, args, _ := psql.
		Select(
			"ci.id",
			"u.username AS invited_username",
			"ci.status",
			"ci.invitation_date",
			"ci.response_date",
		).
		From("committee_invitations ci").
		Join("users u ON ci.invited_user_id = u.id").
		Where(sq.Eq{"ci.committee_id": h.raw.ID}).
		OrderBy("ci.invitation_date DESC").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &invitations, sql, args...)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// UpdateSettings mutates committee metadata. A status change must follow
// the committee state machine; completed and cancelled are terminal.
func (h *CommitteeH) UpdateSettings(ctx context.Context, s models.CommitteeSettings) error {
	if !h.perms.Manage {
		return models.ErrPermDenied
	}
	current, err := readRawCommittee(ctx, h.sharedDB, h.raw.ID)
	if err != nil {
		return err
	}
	if s.Status != current.Status && !models.CanTransition(current.Status, s.Status) {
		return &models.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("cannot transition from %s to %s", current.Status, s.Status),
		}
	}

	sql, args, _ := psql.
		Update("committees").
		Set("title", s.Title).
		Set("description", s.Description).
		Set("status", s.Status).
		Set("payment_frequency", s.PaymentFrequency).
		Set("category", s.Category).
		Set("committee_type", s.CommitteeType).
		Where(sq.Eq{"id": h.raw.ID}).
		ToSql()

	tag, err := h.sharedDB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the committee and everything hanging off it, in
// dependency order, inside one transaction.
func (h *CommitteeH) Delete(ctx context.Context) error {
	if !h.perms.Manage {
		return models.ErrPermDenied
	}
	return execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		for _, table := range []string{"payments", "payouts", "committee_invitations", "committee_members"} {
			sql, args, _ := psql.Delete(table).Where(sq.Eq{"committee_id": h.raw.ID}).ToSql()
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}
		sql, args, _ := psql.Delete("committees").Where(sq.Eq{"id": h.raw.ID}).ToSql()
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// PaymentSchedule derives the full contribution calendar from the
// committee's own parameters.
func (h *CommitteeH) PaymentSchedule(ctx context.Context) ([]schedule.PaymentDue, error) {
	committee, err := h.Read(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.Payments(committee.CreatedDate, committee.PaymentFrequency, committee.Duration), nil
}

// PayoutSchedule derives the payout queue from the current membership,
// ordered by position. The admin, at position 1, is paid first.
func (h *CommitteeH) PayoutSchedule(ctx context.Context) ([]schedule.PayoutTurn, error) {
	committee, err := h.Read(ctx)
	if err != nil {
		return nil, err
	}
	members, err := h.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
	}
	return schedule.Payouts(committee.CreatedDate, committee.PaymentFrequency, memberIDs), nil
}

// RecordPayment stores one cycle's contribution by the current user and
// recomputes their trust score, attributing the change to on-time or
// late payment.
func (h *CommitteeH) RecordPayment(ctx context.Context, req *models.PaymentReq) (*models.Payment, error) {
	if h.userH == nil || !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pos, err := memberPosition(ctx, h.sharedDB, h.raw.ID, h.userH.id)
	if err != nil {
		return nil, err
	}
	if pos == 0 {
		return nil, models.ErrPermDenied
	}

	now := time.Now()
	payment := &models.Payment{
		ID:            uuid.New().String(),
		CommitteeID:   h.raw.ID,
		UserID:        h.userH.id,
		Amount:        req.Amount,
		PaymentDate:   now,
		DueDate:       req.DueDate,
		Status:        models.PaymentPaid,
		PaymentMethod: req.PaymentMethod,
	}
	txn := fmt.Sprintf("TXN%s%s", now.Format("20060102150405"), payment.ID[:8])
	payment.TransactionID = &txn

	sql, args, _ := psql.
		Insert("payments").
		Columns("id", "committee_id", "user_id", "amount", "payment_date",
			"due_date", "status", "payment_method", "transaction_id").
		Values(payment.ID, payment.CommitteeID, payment.UserID, payment.Amount, payment.PaymentDate,
			payment.DueDate, payment.Status, payment.PaymentMethod, payment.TransactionID).
		ToSql()

	_, err = h.sharedDB.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	reason := "on-time payment"
	if !payment.OnTime() {
		reason = "late payment"
	}
	committeeID := h.raw.ID
	if _, err := h.trustSvc.Recompute(ctx, h.userH.id, reason, &committeeID); err != nil {
		return nil, err
	}
	return payment, nil
}

// DisbursePayout pays the pooled cycle amount out to a member. The
// amount is monthly_amount * current_members read at disbursement time,
// so it grows as the committee fills.
func (h *CommitteeH) DisbursePayout(ctx context.Context, userID string, method string) (*models.Payout, error) {
	if !h.perms.Manage {
		return nil, models.ErrPermDenied
	}

	var payout *models.Payout
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		row := tx.QueryRow(ctx,
			"SELECT monthly_amount, current_members FROM committees WHERE id = $1 FOR UPDATE",
			h.raw.ID)
		var monthlyAmount, currentMembers int
		if err := row.Scan(&monthlyAmount, &currentMembers); err != nil {
			return err
		}

		pos, err := memberPosition(ctx, tx, h.raw.ID, userID)
		if err != nil {
			return err
		}
		if pos == 0 {
			return models.ErrNotFound
		}

		payout = &models.Payout{
			ID:           uuid.New().String(),
			CommitteeID:  h.raw.ID,
			UserID:       userID,
			Amount:       schedule.PayoutAmount(monthlyAmount, currentMembers),
			PayoutDate:   time.Now(),
			Status:       models.PaymentPaid,
			PayoutMethod: method,
		}

		sql, args, _ := psql.
			Insert("payouts").
			Columns("id", "committee_id", "user_id", "amount", "payout_date", "status", "payout_method").
			Values(payout.ID, payout.CommitteeID, payout.UserID, payout.Amount,
				payout.PayoutDate, payout.Status, payout.PayoutMethod).
			ToSql()

		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// ListPayouts returns the committee's disbursement history.
func (h *CommitteeH) ListPayouts(ctx context.Context) ([]models.Payout, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	payouts := []models.Payout{}
	sql, args, _ := psql.
		Select("*").
		From("payouts").
		Where(sq.Eq{"committee_id": h.raw.ID}).
		OrderBy("payout_date").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &payouts, sql, args...)
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

func readRawCommittee(ctx context.Context, db DBTX, committeeID string) (*models.Committee, error) {
	var committee models.Committee
	err := pgxscan.Get(ctx, db, &committee, "SELECT * FROM committees WHERE id = $1", committeeID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &committee, nil
}
