package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

// userRepository is the SQL implementation of [UserRepository] over the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser assigns the id, timestamps and schema version, inserts the row
// and returns the stored user.
//
// Error handling:
//   - unique violation on username → [ErrUsernameAlreadyExists].
//   - any other unique violation (email) → [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	now := r.db.now()
	if user.ID == "" {
		user.ID = r.db.ids.Generate()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	user.SchemaVersion = currentUserSchema

	insert := r.db.builder.Insert(user.TableName()).
		Columns(userColumns...).
		Values(
			user.ID, user.Email, toNullString(user.Username), toNullString(user.Phone),
			string(user.Role), user.IsActive, user.PasswordHash,
			user.CreatedAt, user.UpdatedAt, nil, user.SchemaVersion,
		)

	if _, err := r.db.exec(ctx, insert); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		if r.db.isUniqueViolation(err) {
			if strings.Contains(err.Error(), "username") {
				return models.User{}, ErrUsernameAlreadyExists
			}
			return models.User{}, ErrEmailAlreadyExists
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", sq.Eq{"id": id})
}

// FindUserByEmail matches the email case-insensitively; emails are stored
// lower-cased.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": strings.ToLower(email)})
}

func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByUsername", sq.Eq{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, fn string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(userColumns...).From(models.User{}.TableName()).Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var row userRow
	if err := row.scan(r.db.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", fn).Msg("error scanning user")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	user, err := row.model()
	if err != nil {
		log.Err(err).Str("func", fn).Str("user_id", row.ID).Msg("error upgrading user record")
		return models.User{}, err
	}
	return user, nil
}

// ListUsers returns users newest first.
func (r *userRepository) ListUsers(ctx context.Context, page models.Page) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := paginate(
		r.db.builder.Select(userColumns...).From(models.User{}.TableName()).OrderBy("created_at DESC", "id DESC"),
		page,
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, page.Limit)
	for rows.Next() {
		var row userRow
		if err := row.scan(rows); err != nil {
			log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		user, err := row.model()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, "*userRepository.UpdatePassword", id, map[string]any{"password_hash": passwordHash})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, "*userRepository.UpdateLastLogin", id, map[string]any{"last_login_at": at.UTC()})
}

func (r *userRepository) SetUserActive(ctx context.Context, id string, active bool) (models.User, error) {
	if err := r.update(ctx, "*userRepository.SetUserActive", id, map[string]any{"is_active": active}); err != nil {
		return models.User{}, err
	}
	return r.FindUserByID(ctx, id)
}

func (r *userRepository) update(ctx context.Context, fn, id string, set map[string]any) error {
	log := logger.FromContext(ctx)

	set["updated_at"] = r.db.now()
	affected, err := r.db.exec(ctx, r.db.builder.Update(models.User{}.TableName()).SetMap(set).Where(sq.Eq{"id": id}))
	if err != nil {
		log.Err(err).Str("func", fn).Str("user_id", id).Msg("failed to update user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int64, int64, error) {
	query, args, err := r.db.builder.
		Select("COUNT(*)", "COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)").
		From(models.User{}.TableName()).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total, active int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &active); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.CountUsers").Msg("failed to count users")
		return 0, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return total, active, nil
}
