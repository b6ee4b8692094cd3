package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

type adminLogRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewAdminLogRepository(db *DB, logger *logger.Logger) AdminLogRepository {
	logger.Debug().Msg("creating admin log repository")
	return &adminLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *adminLogRepository) CreateLog(ctx context.Context, entry models.AdminLog) (models.AdminLog, error) {
	if entry.ID == "" {
		entry.ID = r.db.ids.Generate()
	}
	entry.CreatedAt = r.db.now()

	insert := r.db.builder.Insert(entry.TableName()).
		Columns(adminLogColumns...).
		Values(entry.ID, entry.AdminID, entry.Action, entry.TargetType, entry.TargetID, entry.Description, entry.CreatedAt)

	if _, err := r.db.exec(ctx, insert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*adminLogRepository.CreateLog").
			Str("action", entry.Action).
			Msg("failed to insert admin log")
		return models.AdminLog{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return entry, nil
}

// ListLogs returns log entries newest first.
func (r *adminLogRepository) ListLogs(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	log := logger.FromContext(ctx)

	b := r.db.builder.Select(adminLogColumns...).From(models.AdminLog{}.TableName())
	if filter.Action != "" {
		b = b.Where(sq.Eq{"action": filter.Action})
	}
	if filter.TargetType != "" {
		b = b.Where(sq.Eq{"target_type": filter.TargetType})
	}

	query, args, err := paginate(b.OrderBy("created_at DESC", "id DESC"), filter.Page).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*adminLogRepository.ListLogs").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.AdminLog, 0, filter.Page.Limit)
	for rows.Next() {
		var e models.AdminLog
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.TargetType, &e.TargetID, &e.Description, &e.CreatedAt); err != nil {
			log.Err(err).Str("func", "*adminLogRepository.ListLogs").Msg("failed to scan admin log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}
