package db

import (
	"context"
	"unicode"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/google/uuid"
	"gitlab.com/civitas-pk/civitas/internal/models"
	"gitlab.com/civitas-pk/civitas/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a new account. Usernames are unique; the stored
// credential is a bcrypt hash of the password.
func (sdb *SharedDB) CreateUser(ctx context.Context, req *models.UserReq, passwd string) (*UserH, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, models.ErrInvalidFormat
	}
	if !validatePasswd(passwd) {
		return nil, models.ErrWeakPasswd
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwd), sdb.bcryptCost)
	if err != nil {
		return nil, err
	}

	userID := uuid.New().String()
	sql, args, _ := psql.
		Insert("users").
		Columns("id", "username", "passwd_hash", "full_name", "email", "phone", "role", "cnic", "trust_score").
		Values(userID, req.Username, hash, req.FullName, req.Email, req.Phone, req.Role, req.Cnic, models.DefaultTrustScore).
		ToSql()

	_, err = sdb.db.Exec(ctx, sql, args...)
	if isConstraintErr(err, "users_username_key") {
		return nil, models.ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}

	return &UserH{
		id:       userID,
		perms:    userPerms{Read: true, Delete: true},
		sharedDB: sdb.db,
	}, nil
}

// Login verifies credentials and mints a session token.
func (sdb *SharedDB) Login(ctx context.Context, username string, passwd string) (token string, err error) {
	sql, args, _ := psql.
		Select("id", "passwd_hash").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()

	var data struct {
		ID         string
		PasswdHash string
	}
	err = pgxscan.Get(ctx, sdb.db, &data, sql, args...)
	if err != nil {
		return "", err
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(data.PasswdHash), []byte(passwd))
	if compareErr != nil {
		return "", compareErr
	}

	token = utils.GenToken(TokenLen)
	sql, args, _ = psql.
		Insert("tokens").
		Columns("user_id", "token").
		Values(data.ID, token).
		ToSql()

	_, err = sdb.db.Exec(ctx, sql, args...)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (sdb *SharedDB) Signout(ctx context.Context, token string) error {
	_, err := sdb.db.Exec(ctx, "DELETE FROM tokens WHERE tokens.token = $1", token)
	return err
}

func (sdb *SharedDB) GetUserH(ctx context.Context, token string) (UserH, error) {
	sql, args, _ := psql.
		Select("user_id").
		From("tokens").
		Where(sq.Eq{"token": token}).
		ToSql()

	uH := UserH{
		sharedDB: sdb.db,
		perms:    userPerms{Read: true, Delete: true},
	}
	row := sdb.db.QueryRow(ctx, sql, args...)
	err := row.Scan(&uH.id)
	if err != nil {
		return uH, err
	}
	return uH, nil
}

func validatePasswd(passwd string) bool {
	if len(passwd) < 8 || len(passwd) > 64 {
		return false
	}

	containsLetter := false
	containsNumber := false
	for _, r := range passwd {
		if !unicode.IsPrint(r) {
			return false
		}
		if unicode.IsLetter(r) {
			containsLetter = true
		} else if unicode.IsNumber(r) {
			containsNumber = true
		}
	}
	return containsLetter && containsNumber
}
