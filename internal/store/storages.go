package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
)

// Storages bundles every repository over one database connection.
type Storages struct {
	UserRepository     UserRepository
	AgentRepository    AgentRepository
	FileRepository     FileRepository
	StatsRepository    StatsRepository
	AdminLogRepository AdminLogRepository
	Pinger             Pinger

	db *DB
}

// NewStorages connects to the configured database, applies migrations and
// builds the repositories.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return NewStoragesFromDB(db, log), nil
}

// NewStoragesFromDB builds the repositories over an open database.
func NewStoragesFromDB(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:     NewUserRepository(db, log),
		AgentRepository:    NewAgentRepository(db, log),
		FileRepository:     NewFileRepository(db, log),
		StatsRepository:    NewStatsRepository(db, log),
		AdminLogRepository: NewAdminLogRepository(db, log),
		Pinger:             db,
		db:                 db,
	}
}

// Close closes the underlying connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
