package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

const defaultContentType = "application/octet-stream"

type fileService struct {
	fileRepository  store.FileRepository
	agentRepository store.AgentRepository
	storage         filestore.FileStorage

	allowedArchiveExtensions []string

	logger *logger.Logger
}

func NewFileService(storages *store.Storages, storage filestore.FileStorage, cfg config.Files, logger *logger.Logger) FileService {
	exts := make([]string, 0, len(cfg.AllowedArchiveExtensions))
	for _, ext := range cfg.AllowedArchiveExtensions {
		exts = append(exts, strings.ToLower(ext))
	}

	return &fileService{
		fileRepository:           storages.FileRepository,
		agentRepository:          storages.AgentRepository,
		storage:                  storage,
		allowedArchiveExtensions: exts,
		logger:                   logger,
	}
}

// Upload stores the content and records its metadata.
//
// An empty file type means agents. Agent archives must carry one of the
// allowed extensions, and an attached agent must belong to the caller.
// Uploading the same name again updates the record already pointing at the
// blob. If a new record cannot be written the stored blob is removed again.
func (s *fileService) Upload(ctx context.Context, caller models.User, upload models.FileUpload) (models.File, error) {
	log := logger.FromContext(ctx)

	if len(upload.Content) == 0 {
		return models.File{}, ErrEmptyFile
	}

	fileType := filestore.FileTypeAgents
	if strings.TrimSpace(upload.FileType) != "" {
		fileType = filestore.ParseFileType(upload.FileType)
	}
	if fileType == filestore.FileTypeAgents && !s.allowedArchive(upload.Filename) {
		return models.File{}, fmt.Errorf("%w: allowed: %s", ErrInvalidFileExtension, strings.Join(s.allowedArchiveExtensions, ", "))
	}

	if upload.AgentID != nil {
		agent, err := s.agentRepository.FindAgentByID(ctx, *upload.AgentID)
		if err != nil {
			return models.File{}, err
		}
		if agent.CreatedBy != caller.ID {
			return models.File{}, ErrForbidden
		}
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(upload.Filename))
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	locator, url, err := s.storage.Store(ctx, upload.Content, upload.Filename, caller.ID, fileType, contentType)
	if err != nil {
		log.Err(err).Str("func", "*fileService.Upload").Str("user_id", caller.ID).Msg("error storing file")
		return models.File{}, err
	}

	backend := string(s.storage.Backend())

	// the locator is deterministic, so a re-upload lands on an existing blob
	existing, err := s.fileRepository.FindFileByLocator(ctx, backend, locator)
	switch {
	case err == nil:
		return s.replace(ctx, existing, upload, contentType, url, fileType)
	case !errors.Is(err, store.ErrFileNotFound):
		// the blob may still belong to a record, so it is kept
		log.Err(err).Str("func", "*fileService.Upload").Str("locator", locator).Msg("error looking up existing record")
		return models.File{}, fmt.Errorf("error recording file: %w", err)
	}

	file, err := s.fileRepository.CreateFile(ctx, models.File{
		Filename:    filepath.Base(locator),
		ContentType: contentType,
		SizeBytes:   int64(len(upload.Content)),
		StorageType: backend,
		StoragePath: locator,
		URL:         url,
		FileType:    string(fileType),
		UploadedBy:  caller.ID,
		AgentID:     upload.AgentID,
	})
	if err != nil {
		log.Err(err).Str("func", "*fileService.Upload").Str("locator", locator).Msg("error recording file, removing blob")
		if _, delErr := s.storage.Delete(ctx, locator); delErr != nil {
			log.Err(delErr).Str("func", "*fileService.Upload").Str("locator", locator).Msg("error removing orphaned blob")
		}
		return models.File{}, fmt.Errorf("error recording file: %w", err)
	}

	log.Info().Str("func", "*fileService.Upload").Str("file_id", file.ID).Int64("size", file.SizeBytes).Msg("file uploaded")
	return file, nil
}

// replace points an existing record at the content just written over its
// blob. The agent link is kept unless the upload names a new one.
func (s *fileService) replace(ctx context.Context, file models.File, upload models.FileUpload, contentType, url string, fileType filestore.FileType) (models.File, error) {
	file.ContentType = contentType
	file.SizeBytes = int64(len(upload.Content))
	file.URL = url
	file.FileType = string(fileType)
	if upload.AgentID != nil {
		file.AgentID = upload.AgentID
	}

	updated, err := s.fileRepository.UpdateFile(ctx, file)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*fileService.replace").Str("file_id", file.ID).Msg("error updating replaced file record")
		return models.File{}, fmt.Errorf("error recording file: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "*fileService.replace").Str("file_id", updated.ID).Int64("size", updated.SizeBytes).Msg("file replaced")
	return updated, nil
}

// ListFiles returns the caller's files; admins see every file.
func (s *fileService) ListFiles(ctx context.Context, caller models.User, agentID *string, page models.Page) ([]models.File, error) {
	filter := models.FileFilter{AgentID: agentID, Page: page}
	if caller.Role != models.RoleAdmin {
		filter.UploadedBy = caller.ID
	}
	return s.fileRepository.ListFiles(ctx, filter)
}

func (s *fileService) GetFile(ctx context.Context, caller models.User, id string) (models.File, error) {
	file, err := s.fileRepository.FindFileByID(ctx, id)
	if err != nil {
		return models.File{}, err
	}
	if file.UploadedBy != caller.ID && caller.Role != models.RoleAdmin {
		return models.File{}, ErrForbidden
	}
	return file, nil
}

func (s *fileService) Download(ctx context.Context, caller models.User, id string) (models.File, []byte, error) {
	file, err := s.GetFile(ctx, caller, id)
	if err != nil {
		return models.File{}, nil, err
	}

	if file.StorageType != string(s.storage.Backend()) {
		logger.FromContext(ctx).Warn().
			Str("func", "*fileService.Download").
			Str("file_id", id).
			Str("storage_type", file.StorageType).
			Msg("file was stored by another backend")
		return models.File{}, nil, &filestore.Error{Op: "retrieve", Backend: s.storage.Backend(), Locator: file.StoragePath, Err: filestore.ErrNotFound}
	}

	content, err := s.storage.Retrieve(ctx, file.StoragePath)
	if err != nil {
		return models.File{}, nil, err
	}
	return file, content, nil
}

// DeleteFile removes the blob first and the record second. The two steps
// are not atomic: if the record delete fails the blob is already gone and
// the reconcile worker removes the record later.
func (s *fileService) DeleteFile(ctx context.Context, caller models.User, id string) error {
	log := logger.FromContext(ctx)

	file, err := s.GetFile(ctx, caller, id)
	if err != nil {
		return err
	}

	deleted, err := s.storage.Delete(ctx, file.StoragePath)
	if err != nil && !errors.Is(err, filestore.ErrNotFound) {
		log.Err(err).Str("func", "*fileService.DeleteFile").Str("file_id", id).Msg("error deleting blob")
		return err
	}
	if !deleted {
		log.Warn().Str("func", "*fileService.DeleteFile").Str("file_id", id).Msg("blob was already missing")
	}

	if err := s.fileRepository.DeleteFile(ctx, id); err != nil {
		log.Err(err).Str("func", "*fileService.DeleteFile").Str("file_id", id).Msg("error deleting file record")
		return fmt.Errorf("error deleting file record: %w", err)
	}

	log.Info().Str("func", "*fileService.DeleteFile").Str("file_id", id).Msg("file deleted")
	return nil
}

func (s *fileService) allowedArchive(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range s.allowedArchiveExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
