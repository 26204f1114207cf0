package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/google/uuid"
	"gitlab.com/civitas-pk/civitas/internal/models"
)

// CivitasH is the root handle: operations that exist outside the scope
// of a single committee. An anonymous handle (no user) can only browse.
type CivitasH struct {
	sharedDB DBTX
	userH    *UserH
	role     models.UserRole
	trustSvc *trustScoreService
}

func (sdb *SharedDB) GetCivitasH(ctx context.Context, uH *UserH) (*CivitasH, error) {
	cH := &CivitasH{
		sharedDB: sdb.db,
		userH:    uH,
		trustSvc: NewTrustScoreService(sdb.db),
	}
	if uH != nil {
		user, err := uH.Read(ctx)
		if err != nil {
			return nil, err
		}
		cH.role = user.Role
	}
	return cH, nil
}

// CreateCommittee persists a committee with the creator enrolled as
// member #1 in the same transaction. Only admin-role users may create
// private committees.
func (h *CivitasH) CreateCommittee(ctx context.Context, req *models.CommitteeReq) (*CommitteeH, error) {
	if h.userH == nil {
		return nil, models.ErrPermDenied
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.CommitteeType == models.CommitteePrivate && h.role != models.RoleAdmin {
		return nil, models.ErrPermDenied
	}

	committeeID := uuid.New().String()
	adminID := h.userH.id
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		sql, args, _ := psql.
			Insert("committees").
			Columns("id", "title", "description", "monthly_amount", "total_members",
				"current_members", "duration", "committee_type", "category",
				"payment_frequency", "status", "admin_id").
			Values(committeeID, req.Title, req.Description, req.MonthlyAmount, req.TotalMembers,
				1, req.Duration, req.CommitteeType, req.Category,
				req.PaymentFrequency, models.StatusActive, adminID).
			ToSql()

		_, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}

		return insertMember(ctx, tx, committeeID, adminID, 1)
	})
	if err != nil {
		return nil, err
	}

	return h.GetCommitteeH(ctx, committeeID)
}

// ListPublicCommittees returns joinable public committees the current
// user is not already part of.
func (h *CivitasH) ListPublicCommittees(ctx context.Context) ([]models.Committee, error) {
	committees := []models.Committee{}
	query := psql.
		Select("*").
		From("committees").
		Where(sq.Eq{"committee_type": models.CommitteePublic}).
		Where("current_members < total_members").
		OrderBy("created_date DESC")

	if h.userH != nil {
		query = query.Where(
			"id NOT IN (SELECT committee_id FROM committee_members WHERE user_id = ?)",
			h.userH.id)
	}

	sql, args, _ := query.ToSql()
	err := pgxscan.Select(ctx, h.sharedDB, &committees, sql, args...)
	if err != nil {
		return nil, err
	}
	return committees, nil
}

// ListUsersForInvitation returns candidate invitees: everyone but the
// requesting user, with just enough data to pick from.
func (h *CivitasH) ListUsersForInvitation(ctx context.Context) ([]models.UserSummary, error) {
	if h.userH == nil {
		return nil, models.ErrPermDenied
	}
	users := []models.UserSummary{}
	sql, args, _ := psql.
		Select("id", "username", "trust_score").
		From("users").
		Where(sq.NotEq{"id": h.userH.id}).
		OrderBy("username").
		ToSql()

	err := pgxscan.Select(ctx, h.sharedDB, &users, sql, args...)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// RefreshTrustScore recomputes and persists the current user's score,
// appending an audit event when it moved.
func (h *CivitasH) RefreshTrustScore(ctx context.Context, reason string) (int, error) {
	if h.userH == nil {
		return 0, models.ErrPermDenied
	}
	return h.trustSvc.Recompute(ctx, h.userH.id, reason, nil)
}

// TrustEvents returns the current user's audit trail, newest first.
func (h *CivitasH) TrustEvents(ctx context.Context) ([]models.TrustEvent, error) {
	if h.userH == nil {
		return nil, models.ErrPermDenied
	}
	return h.trustSvc.List(ctx, h.userH.id)
}
