package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"gitlab.com/civitas-pk/civitas/internal/models"
)

type userPerms struct {
	Read   bool
	Delete bool
}

// UserH is a capability handle over one authenticated user's own data.
type UserH struct {
	id       string
	perms    userPerms
	sharedDB DBTX
}

func (h UserH) ID() string {
	return h.id
}

func (h UserH) Read(ctx context.Context) (*models.User, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	return readUser(ctx, h.sharedDB, h.id)
}

func readUser(ctx context.Context, db DBTX, userID string) (*models.User, error) {
	user := &models.User{}
	sql, args, _ := psql.
		Select("id", "username", "full_name", "email", "phone", "role", "cnic", "trust_score", "created_date").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()

	err := pgxscan.Get(ctx, db, user, sql, args...)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (h UserH) UpdateProfile(ctx context.Context, p models.ProfileUpdate) error {
	if !h.perms.Read {
		return models.ErrPermDenied
	}
	sql, args, _ := psql.
		Update("users").
		Set("full_name", p.FullName).
		Set("email", p.Email).
		Set("phone", p.Phone).
		Set("cnic", p.Cnic).
		Where(sq.Eq{"id": h.id}).
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

func (h UserH) Delete(ctx context.Context) error {
	if !h.perms.Delete {
		return models.ErrPermDenied
	}
	sql, args, _ := psql.Delete("users").Where(sq.Eq{"id": h.id}).ToSql()
	_, err := h.sharedDB.Exec(ctx, sql, args...)
	return err
}

// ListCommittees returns every committee the user belongs to, newest first.
func (h UserH) ListCommittees(ctx context.Context) ([]models.Committee, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	committees := []models.Committee{}
	sql, args, _ := psql.
		Select("committees.*").
		From("committees").
		Join("committee_members ON committees.id = committee_members.committee_id").
		Where(sq.Eq{"committee_members.user_id": h.id}).
		OrderBy("committees.created_date DESC").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &committees, sql, args...)
	if err != nil {
		return nil, err
	}
	return committees, nil
}

// ListInvitations returns the user's pending invitations with committee
// context joined in.
func (h UserH) ListInvitations(ctx context.Context) ([]models.InvitationView, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	invitations := []models.InvitationView{}
	sql, args, _ := psql.
		Select(
			"ci.id",
			"ci.committee_id",
			"c.title AS committee_title",
			"ci.invited_by_id",
			"u.username AS invited_by_username",
			"ci.invitation_date",
			"ci.message",
		).
		From("committee_invitations ci").
		Join("committees c ON ci.committee_id = c.id").
		Join("users u ON ci.invited_by_id = u.id").
		Where(sq.Eq{"ci.invited_user_id": h.id, "ci.status": models.InvitationPending}).
		OrderBy("ci.invitation_date DESC").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &invitations, sql, args...)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// RespondToInvitation settles a pending invitation. Accepting joins the
// committee inside the same transaction: if the committee filled in the
// meantime, both the status change and the membership are rolled back
// and (false, nil) is returned. A missing or already-settled invitation
// also yields (false, nil).
func (h UserH) RespondToInvitation(ctx context.Context, invitationID string, accept bool) (bool, error) {
	if !h.perms.Read {
		return false, models.ErrPermDenied
	}

	status := models.InvitationRejected
	if accept {
		status = models.InvitationAccepted
	}

	ok := false
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		sql, args, _ := psql.
			Update("committee_invitations").
			Set("status", status).
			Set("response_date", time.Now()).
			Where(sq.Eq{
				"id":              invitationID,
				"invited_user_id": h.id,
				"status":          models.InvitationPending,
			}).
			Suffix("RETURNING committee_id").
			ToSql()

		var committeeID string
		row := tx.QueryRow(ctx, sql, args...)
		if err := row.Scan(&committeeID); err != nil {
			if err == pgx.ErrNoRows {
				// Not pending (or not ours): leave ok=false without
				// failing the transaction machinery.
				return errInvitationGone
			}
			return err
		}

		if accept {
			joined, err := joinLocked(ctx, tx, committeeID, h.id)
			if err != nil {
				return err
			}
			if !joined {
				return errCommitteeFull
			}
		}
		ok = true
		return nil
	})
	if err == errInvitationGone || err == errCommitteeFull {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// PaymentHistory returns the user's payments, newest first.
func (h UserH) PaymentHistory(ctx context.Context) ([]models.Payment, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	payments := []models.Payment{}
	sql, args, _ := psql.
		Select("*").
		From("payments").
		Where(sq.Eq{"user_id": h.id}).
		OrderBy("payment_date DESC").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &payments, sql, args...)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// PayoutNotices lists the committees where this user holds position 1,
// i.e. is next in line for a payout. Amounts are derived from current
// membership at query time.
func (h UserH) PayoutNotices(ctx context.Context) ([]models.PayoutNotice, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	notices := []models.PayoutNotice{}
	sql, args, _ := psql.
		Select(
			"committees.id AS committee_id",
			"committees.title AS committee_title",
			"committees.monthly_amount * committees.current_members AS amount",
		).
		From("committees").
		Join("committee_members ON committees.id = committee_members.committee_id").
		Where(sq.Eq{
			"committee_members.user_id":  h.id,
			"committee_members.position": 1,
			"committees.status":          models.StatusActive,
		}).
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &notices, sql, args...)
	if err != nil {
		return nil, err
	}
	return notices, nil
}
