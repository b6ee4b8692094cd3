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

type fileRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewFileRepository(db *DB, logger *logger.Logger) FileRepository {
	logger.Debug().Msg("creating file repository")
	return &fileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *fileRepository) CreateFile(ctx context.Context, file models.File) (models.File, error) {
	if file.ID == "" {
		file.ID = r.db.ids.Generate()
	}
	file.CreatedAt = r.db.now()
	file.SchemaVersion = currentFileSchema

	insert := r.db.builder.Insert(file.TableName()).
		Columns(fileColumns...).
		Values(
			file.ID, file.Filename, file.ContentType, file.SizeBytes, file.StorageType, file.StoragePath,
			file.URL, file.FileType, file.UploadedBy, toNullString(file.AgentID), file.CreatedAt, file.SchemaVersion,
		)

	if _, err := r.db.exec(ctx, insert); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*fileRepository.CreateFile").
			Str("uploaded_by", file.UploadedBy).
			Msg("failed to insert file record")
		return models.File{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return file, nil
}

func (r *fileRepository) FindFileByID(ctx context.Context, id string) (models.File, error) {
	b := r.db.builder.Select(fileColumns...).From(models.File{}.TableName()).Where(sq.Eq{"id": id})
	return r.findOne(ctx, "*fileRepository.FindFileByID", b)
}

func (r *fileRepository) FindFileByLocator(ctx context.Context, storageType, storagePath string) (models.File, error) {
	b := r.db.builder.Select(fileColumns...).From(models.File{}.TableName()).
		Where(sq.Eq{"storage_type": storageType, "storage_path": storagePath}).
		OrderBy("created_at ASC", "id ASC").
		Limit(1)
	return r.findOne(ctx, "*fileRepository.FindFileByLocator", b)
}

func (r *fileRepository) findOne(ctx context.Context, fn string, b sq.SelectBuilder) (models.File, error) {
	log := logger.FromContext(ctx)

	query, args, err := b.ToSql()
	if err != nil {
		return models.File{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var row fileRow
	if err := row.scan(r.db.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.File{}, ErrFileNotFound
		}
		log.Err(err).Str("func", fn).Msg("failed to scan file")
		return models.File{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	file, err := row.model()
	if err != nil {
		log.Err(err).Str("func", fn).Str("file_id", row.ID).Msg("failed to upgrade file record")
		return models.File{}, err
	}
	return file, nil
}

func (r *fileRepository) UpdateFile(ctx context.Context, file models.File) (models.File, error) {
	file.SchemaVersion = currentFileSchema

	update := r.db.builder.Update(file.TableName()).
		Set("content_type", file.ContentType).
		Set("size_bytes", file.SizeBytes).
		Set("url", file.URL).
		Set("file_type", file.FileType).
		Set("agent_id", toNullString(file.AgentID)).
		Set("schema_version", file.SchemaVersion).
		Where(sq.Eq{"id": file.ID})

	affected, err := r.db.exec(ctx, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*fileRepository.UpdateFile").
			Str("file_id", file.ID).
			Msg("failed to update file record")
		return models.File{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return models.File{}, ErrFileNotFound
	}

	return file, nil
}

// ListFiles returns files newest first.
func (r *fileRepository) ListFiles(ctx context.Context, filter models.FileFilter) ([]models.File, error) {
	b := r.db.builder.Select(fileColumns...).From(models.File{}.TableName())
	if filter.UploadedBy != "" {
		b = b.Where(sq.Eq{"uploaded_by": filter.UploadedBy})
	}
	if filter.AgentID != nil {
		b = b.Where(sq.Eq{"agent_id": *filter.AgentID})
	}

	return r.list(ctx, "*fileRepository.ListFiles", paginate(b.OrderBy("created_at DESC", "id DESC"), filter.Page))
}

func (r *fileRepository) ListFilesAfter(ctx context.Context, afterID string, limit uint64) ([]models.File, error) {
	b := r.db.builder.Select(fileColumns...).From(models.File{}.TableName())
	if afterID != "" {
		b = b.Where(sq.Gt{"id": afterID})
	}

	return r.list(ctx, "*fileRepository.ListFilesAfter", b.OrderBy("id ASC").Limit(limit))
}

func (r *fileRepository) list(ctx context.Context, fn string, b sq.SelectBuilder) ([]models.File, error) {
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

	files := make([]models.File, 0, 16)
	for rows.Next() {
		var row fileRow
		if err := row.scan(rows); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan file row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		file, err := row.model()
		if err != nil {
			log.Err(err).Str("func", fn).Str("file_id", row.ID).Msg("failed to upgrade file record")
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return files, nil
}

func (r *fileRepository) DeleteFile(ctx context.Context, id string) error {
	affected, err := r.db.exec(ctx, r.db.builder.Delete(models.File{}.TableName()).Where(sq.Eq{"id": id}))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*fileRepository.DeleteFile").
			Str("file_id", id).
			Msg("failed to delete file record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *fileRepository) CountFiles(ctx context.Context) (int64, error) {
	query, args, err := r.db.builder.Select("COUNT(*)").From(models.File{}.TableName()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*fileRepository.CountFiles").Msg("failed to count files")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}
