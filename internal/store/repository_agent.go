package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

type agentRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewAgentRepository(db *DB, logger *logger.Logger) AgentRepository {
	logger.Debug().Msg("creating agent repository")
	return &agentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *agentRepository) CreateAgent(ctx context.Context, agent models.Agent) (models.Agent, error) {
	now := r.db.now()
	if agent.ID == "" {
		agent.ID = r.db.ids.Generate()
	}
	if agent.Tags == nil {
		agent.Tags = []string{}
	}
	if agent.FileRefs == nil {
		agent.FileRefs = []string{}
	}
	agent.CreatedAt, agent.UpdatedAt = now, now
	agent.SchemaVersion = currentAgentSchema

	insert := r.db.builder.Insert(agent.TableName()).
		Columns(agentColumns...).
		Values(
			agent.ID, agent.Name, agent.Description, string(agent.Visibility), stringList(agent.Tags),
			agent.AgentType, agent.Category, toNullString(agent.GithubLink), stringList(agent.FileRefs),
			agent.IsActive, agent.CopyrightConfirmed, string(agent.Status),
			agent.CreatedBy, agent.CreatedAt, agent.UpdatedAt, agent.SchemaVersion,
		)

	if _, err := r.db.exec(ctx, insert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*agentRepository.CreateAgent").
			Str("created_by", agent.CreatedBy).
			Msg("failed to insert agent")
		return models.Agent{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return agent, nil
}

func (r *agentRepository) FindAgentByID(ctx context.Context, id string) (models.Agent, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(agentColumns...).From(models.Agent{}.TableName()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Agent{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var row agentRow
	if err := row.scan(r.db.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Agent{}, ErrAgentNotFound
		}
		log.Err(err).Str("func", "*agentRepository.FindAgentByID").Str("agent_id", id).Msg("failed to scan agent")
		return models.Agent{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	agent, err := row.model()
	if err != nil {
		log.Err(err).Str("func", "*agentRepository.FindAgentByID").Str("agent_id", id).Msg("failed to upgrade agent record")
		return models.Agent{}, err
	}
	return agent, nil
}

// ListAgents returns agents newest first.
func (r *agentRepository) ListAgents(ctx context.Context, filter models.AgentFilter) ([]models.Agent, error) {
	b := r.db.builder.Select(agentColumns...).From(models.Agent{}.TableName())
	if filter.CreatedBy != "" {
		b = b.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.PublishedOnly {
		b = b.Where(publishedAgent)
	}
	b = paginate(b.OrderBy("created_at DESC", "id DESC"), filter.Page)

	return r.list(ctx, "*agentRepository.ListAgents", b)
}

func (r *agentRepository) list(ctx context.Context, fn string, b sq.SelectBuilder) ([]models.Agent, error) {
	log := logger.FromContext(ctx)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	agents := make([]models.Agent, 0, 16)
	for rows.Next() {
		var row agentRow
		if err := row.scan(rows); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan agent row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		agent, err := row.model()
		if err != nil {
			log.Err(err).Str("func", fn).Str("agent_id", row.ID).Msg("failed to upgrade agent record")
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return agents, nil
}

func (r *agentRepository) ListPublishedAgentIDs(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select("id").
		From(models.Agent{}.TableName()).
		Where(publishedAgent).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*agentRepository.ListPublishedAgentIDs").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0, 32)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, nil
}

func (r *agentRepository) CountAgentsByOwner(ctx context.Context, ownerID string) (int64, error) {
	query, args, err := r.db.builder.Select("COUNT(*)").
		From(models.Agent{}.TableName()).
		Where(sq.Eq{"created_by": ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*agentRepository.CountAgentsByOwner").Msg("failed to count agents")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

func (r *agentRepository) UpdateAgent(ctx context.Context, agent models.Agent) (models.Agent, error) {
	if agent.Tags == nil {
		agent.Tags = []string{}
	}
	if agent.FileRefs == nil {
		agent.FileRefs = []string{}
	}
	agent.UpdatedAt = r.db.now()
	agent.SchemaVersion = currentAgentSchema

	update := r.db.builder.Update(agent.TableName()).
		SetMap(map[string]any{
			"name":                agent.Name,
			"description":         agent.Description,
			"visibility":          string(agent.Visibility),
			"tags":                stringList(agent.Tags),
			"agent_type":          agent.AgentType,
			"category":            agent.Category,
			"github_link":         toNullString(agent.GithubLink),
			"file_refs":           stringList(agent.FileRefs),
			"is_active":           agent.IsActive,
			"copyright_confirmed": agent.CopyrightConfirmed,
			"status":              string(agent.Status),
			"updated_at":          agent.UpdatedAt,
			"schema_version":      agent.SchemaVersion,
		}).
		Where(sq.Eq{"id": agent.ID})

	affected, err := r.db.exec(ctx, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*agentRepository.UpdateAgent").
			Str("agent_id", agent.ID).
			Msg("failed to update agent")
		return models.Agent{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return models.Agent{}, ErrAgentNotFound
	}

	return agent, nil
}

func (r *agentRepository) DeleteAgent(ctx context.Context, id string) error {
	affected, err := r.db.exec(ctx, r.db.builder.Delete(models.Agent{}.TableName()).Where(sq.Eq{"id": id}))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*agentRepository.DeleteAgent").
			Str("agent_id", id).
			Msg("failed to delete agent")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func (r *agentRepository) CountAgents(ctx context.Context) (int64, int64, error) {
	published, publishedArgs, err := publishedAgent.ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := r.db.builder.
		Select("COUNT(*)").
		Column(sq.Expr("COALESCE(SUM(CASE WHEN "+published+" THEN 1 ELSE 0 END), 0)", publishedArgs...)).
		From(models.Agent{}.TableName()).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total, public int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &public); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*agentRepository.CountAgents").Msg("failed to count agents")
		return 0, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return total, public, nil
}
