package core

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/bokjinews/blog/internal/auth"
	"github.com/bokjinews/blog/internal/utils/databaseutils"
	"github.com/bokjinews/blog/models"
)

// CreateProfile inserts a freshly signed-up account. Every new account
// starts as a plain user awaiting admin approval.
func (c *Core) CreateProfile(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO profiles (email, name, password, role, approval_status, approval_requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	user.Role = models.RoleUser
	user.ApprovalStatus = models.ApprovalPending

	args := []any{user.Email, user.Name, user.Password, user.Role, user.ApprovalStatus, time.Now()}
	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "profiles_email_key"`:
			return xerrors.New(ErrDuplicateEmail)
		default:
			return xerrors.New(err)
		}
	}

	return nil
}

func (c *Core) GetProfileByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, name, password, role, approval_status
		FROM profiles
		WHERE email = $1
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

func (c *Core) GetProfileByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `
		SELECT id, email, name, password, role, approval_status
		FROM profiles
		WHERE id = $1
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

// ListProfiles returns accounts newest-request-first, optionally
// narrowed to one approval status.
func (c *Core) ListProfiles(ctx context.Context, status string) ([]*models.Profile, error) {
	query := `
		SELECT id, email, name, role, approval_status, approval_requested_at, approval_processed_at, approval_processed_by
		FROM profiles
		ORDER BY approval_requested_at DESC
	`
	var args []any

	if status != "" {
		query = `
			SELECT id, email, name, role, approval_status, approval_requested_at, approval_processed_at, approval_processed_by
			FROM profiles
			WHERE approval_status = $1
			ORDER BY approval_requested_at DESC
		`
		args = append(args, status)
	}

	profiles, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanProfile, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}

	return profiles, nil
}

// ProcessApproval moves an account to the given approval status and
// stamps when and by whom it was actioned. Re-processing an already
// actioned account is allowed (rejected accounts may be approved later).
func (c *Core) ProcessApproval(ctx context.Context, userID int64, status string, adminID int64) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET approval_status = $1, approval_processed_at = $2, approval_processed_by = $3
		WHERE id = $4
		RETURNING id, email, name, role, approval_status, approval_requested_at, approval_processed_at, approval_processed_by
	`

	profile, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Profile, error) {
		return databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, query, scanProfile, status, time.Now(), adminID, userID)
	})

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	c.log.Info("approval processed", "user_id", profile.ID, "approval_status", profile.ApprovalStatus, "processed_by", adminID)
	return profile, nil
}

// UpdateRole changes an account's role. The self-change guard lives in
// the handler, before this is reached.
func (c *Core) UpdateRole(ctx context.Context, userID int64, role string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET role = $1
		WHERE id = $2
		RETURNING id, email, name, role, approval_status, approval_requested_at, approval_processed_at, approval_processed_by
	`

	profile, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanProfile, role, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	c.log.Info("role updated", "user_id", profile.ID, "role", profile.Role)
	return profile, nil
}

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Password,
		&user.Role,
		&user.ApprovalStatus,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func scanProfile(rows *sql.Rows) (*models.Profile, error) {
	var profile = &models.Profile{}
	var processedAt sql.NullTime
	var processedBy sql.NullInt64

	if err := rows.Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.Role,
		&profile.ApprovalStatus,
		&profile.ApprovalRequestedAt,
		&processedAt,
		&processedBy,
	); err != nil {
		return nil, xerrors.New(err)
	}

	if processedAt.Valid {
		profile.ApprovalProcessedAt = &processedAt.Time
	}
	if processedBy.Valid {
		profile.ApprovalProcessedBy = &processedBy.Int64
	}
	return profile, nil
}
