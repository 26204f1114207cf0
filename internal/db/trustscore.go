package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/civitas-pk/civitas/internal/models"
	"gitlab.com/civitas-pk/civitas/internal/trust"
)

// trustScoreService persists recomputed trust scores and keeps the
// append-only audit trail. Events are never mutated or deleted.
type trustScoreService struct {
	db DBTX
}

func NewTrustScoreService(db DBTX) *trustScoreService {
	return &trustScoreService{db}
}

// Recompute derives the score from the user's full history and stores
// it. A move of at least one point is recorded as a trust event carrying
// the reason and, when known, the committee that triggered it. The user
// row is locked for the whole recomputation so concurrent recomputes
// serialize and each event's old_score matches the previous new_score.
func (s *trustScoreService) Recompute(ctx context.Context, userID string, reason string, committeeID *string) (int, error) {
	newScore := 0
	err := execTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		var current struct {
			TrustScore  int
			CreatedDate time.Time
		}
		sql, args, _ := psql.
			Select("trust_score", "created_date").
			From("users").
			Where(sq.Eq{"id": userID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err := pgxscan.Get(ctx, tx, &current, sql, args...); err != nil {
			return err
		}

		inputs, err := s.loadInputs(ctx, tx, userID, current.CreatedDate)
		if err != nil {
			return err
		}
		newScore = trust.Score(inputs)

		diff := newScore - current.TrustScore
		if diff < 0 {
			diff = -diff
		}
		if diff < 1 {
			return nil
		}

		sql, args, _ = psql.
			Update("users").
			Set("trust_score", newScore).
			Where(sq.Eq{"id": userID}).
			ToSql()
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		sql, args, _ = psql.
			Insert("trust_events").
			Columns("user_id", "old_score", "new_score", "reason", "committee_id").
			Values(userID, current.TrustScore, newScore, reason, committeeID).
			ToSql()
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newScore, nil
}

func (s *trustScoreService) loadInputs(ctx context.Context, db DBTX, userID string, created time.Time) (trust.Inputs, error) {
	inputs := trust.Inputs{
		AccountCreated: created,
		Now:            time.Now(),
	}

	sql, args, _ := psql.
		Select("status", "payment_date", "due_date").
		From("payments").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	err := pgxscan.Select(ctx, db, &inputs.Payments, sql, args...)
	if err != nil {
		return inputs, err
	}

	sql, args, _ = psql.
		Select("committees.status").
		From("committees").
		Join("committee_members ON committees.id = committee_members.committee_id").
		Where(sq.Eq{"committee_members.user_id": userID}).
		ToSql()
	err = pgxscan.Select(ctx, db, &inputs.Committees, sql, args...)
	if err != nil {
		return inputs, err
	}
	return inputs, nil
}

// List returns a user's audit trail, newest first.
func (s *trustScoreService) List(ctx context.Context, userID string) ([]models.TrustEvent, error) {
	events := []models.TrustEvent{}
	sql, args, _ := psql.
		Select("id", "user_id", "old_score", "new_score", "reason", "committee_id", "created_at").
		From("trust_events").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id DESC").
		ToSql()

	err := pgxscan.Select(ctx, s.db, &events, sql, args...)
	if err != nil {
		return nil, err
	}
	return events, nil
}
