package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

type statsRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewStatsRepository(db *DB, logger *logger.Logger) StatsRepository {
	logger.Debug().Msg("creating stats repository")
	return &statsRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertStats inserts the counters of (AgentID, Date) or overwrites the
// existing row. The stored row is returned.
func (r *statsRepository) UpsertStats(ctx context.Context, stats models.AgentStats) (models.AgentStats, error) {
	log := logger.FromContext(ctx)

	now := r.db.now()
	query, args, err := r.db.builder.Insert(stats.TableName()).
		Columns(statsColumns...).
		Values(
			r.db.ids.Generate(), stats.AgentID, stats.Date, stats.Views, stats.Downloads, stats.APICalls,
			now, now, currentStatsSchema,
		).
		Suffix(`ON CONFLICT (agent_id, stat_date) DO UPDATE SET
			views = excluded.views,
			downloads = excluded.downloads,
			api_calls = excluded.api_calls,
			updated_at = excluded.updated_at`).
		Suffix("RETURNING " + joinColumns(statsColumns)).
		ToSql()
	if err != nil {
		return models.AgentStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var row statsRow
	err = r.db.withRetry(ctx, func() error {
		return row.scan(r.db.QueryRowContext(ctx, query, args...))
	})
	if err != nil {
		log.Err(err).
			Str("func", "*statsRepository.UpsertStats").
			Str("agent_id", stats.AgentID).
			Str("date", stats.Date).
			Msg("failed to upsert stats")
		return models.AgentStats{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return row.model()
}

// ListStats returns the stats of one agent, newest date first.
func (r *statsRepository) ListStats(ctx context.Context, agentID string, dates models.DateRange) ([]models.AgentStats, error) {
	log := logger.FromContext(ctx)

	b := r.db.builder.Select(statsColumns...).
		From(models.AgentStats{}.TableName()).
		Where(sq.Eq{"agent_id": agentID})
	query, args, err := dateRange(b, dates).OrderBy("stat_date DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*statsRepository.ListStats").Str("agent_id", agentID).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	result := make([]models.AgentStats, 0, 31)
	for rows.Next() {
		var row statsRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		st, err := row.model()
		if err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return result, nil
}

// Summary totals the counters of every agent within dates.
func (r *statsRepository) Summary(ctx context.Context, dates models.DateRange) (models.StatsSummary, error) {
	b := r.db.builder.Select(
		"CAST(COALESCE(SUM(views), 0) AS BIGINT)",
		"CAST(COALESCE(SUM(downloads), 0) AS BIGINT)",
		"CAST(COALESCE(SUM(api_calls), 0) AS BIGINT)",
		"COUNT(DISTINCT agent_id)",
	).From(models.AgentStats{}.TableName())

	query, args, err := dateRange(b, dates).ToSql()
	if err != nil {
		return models.StatsSummary{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	summary := models.StatsSummary{StartDate: dates.Start, EndDate: dates.End}
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&summary.TotalViews, &summary.TotalDownloads, &summary.TotalAPICalls, &summary.UniqueAgentsCount)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*statsRepository.Summary").Msg("failed to aggregate stats")
		return models.StatsSummary{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return summary, nil
}
