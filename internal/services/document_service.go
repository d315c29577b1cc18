package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/justsurfingit/jobtrack/internal/storage"
	"gorm.io/gorm"
)

const (
	MaxDocumentSize     = 10 << 20
	DocumentContentType = "application/pdf"
	defaultDocumentName = "document.pdf"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9._-] with "_".
func SanitizeFileName(name string) string {
	if name == "" {
		name = defaultDocumentName
	}
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// DocumentUpload is one file taken from a multipart request.
type DocumentUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// DocumentService keeps document rows in the database and bodies in Storage.
// A nil Storage disables uploads; listing still works.
type DocumentService struct {
	DB      *gorm.DB
	Storage storage.Storage
	Now     func() time.Time
}

func NewDocumentService(db *gorm.DB, store storage.Storage) *DocumentService {
	return &DocumentService{DB: db, Storage: store, Now: time.Now}
}

// List returns an owned application's documents, newest first.
func (s *DocumentService) List(ctx context.Context, appID, userID uuid.UUID) ([]models.Document, error) {
	if err := assertApplicationOwnership(s.DB.WithContext(ctx), appID, userID); err != nil {
		return nil, err
	}
	docs := []models.Document{}
	if err := s.DB.WithContext(ctx).Where("application_id = ?", appID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, dataAccess("list documents", err)
	}
	return docs, nil
}

// Upload stores a PDF of at most MaxDocumentSize bytes under
// <user>/<application>/<unix millis>-<sanitized name> and records it.
func (s *DocumentService) Upload(ctx context.Context, appID, userID uuid.UUID, up DocumentUpload) (*models.Document, error) {
	if err := assertApplicationOwnership(s.DB.WithContext(ctx), appID, userID); err != nil {
		return nil, err
	}
	if up.Body == nil {
		return nil, &ValidationError{Message: "File is required"}
	}
	if up.ContentType != DocumentContentType {
		return nil, &ValidationError{Message: "Only PDF files are allowed"}
	}
	if up.Size > MaxDocumentSize {
		return nil, &ValidationError{Message: "File size must be 10MB or less"}
	}
	if s.Storage == nil {
		return nil, ErrStorageDisabled
	}

	name := SanitizeFileName(up.FileName)
	key := fmt.Sprintf("%s/%s/%d-%s", userID, appID, s.Now().UnixMilli(), name)

	fileURL, err := s.Storage.Put(ctx, key, up.Body, up.Size, DocumentContentType)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	doc := &models.Document{
		ApplicationID: appID,
		FileName:      name,
		FileSize:      up.Size,
		FileURL:       fileURL,
		StoragePath:   key,
	}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		s.removeObject(ctx, key)
		return nil, dataAccess("create document", err)
	}
	return doc, nil
}

// Delete removes an owned document's object and row.
func (s *DocumentService) Delete(ctx context.Context, docID, userID uuid.UUID) error {
	var doc models.Document
	err := s.DB.WithContext(ctx).
		Joins("JOIN applications ON applications.id = documents.application_id").
		Where("documents.id = ? AND applications.user_id = ?", docID, userID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return dataAccess("get document", err)
	}

	if s.Storage != nil && doc.StoragePath != "" {
		if err := s.Storage.Delete(ctx, doc.StoragePath); err != nil {
			return fmt.Errorf("delete document object: %w", err)
		}
	}
	if err := s.DB.WithContext(ctx).Delete(&doc).Error; err != nil {
		return dataAccess("delete document", err)
	}
	return nil
}

// RemoveObjects deletes stored bodies whose rows are already gone. Failures are logged only.
func (s *DocumentService) RemoveObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		s.removeObject(ctx, key)
	}
}

func (s *DocumentService) removeObject(ctx context.Context, key string) {
	if s.Storage == nil || key == "" {
		return
	}
	if err := s.Storage.Delete(ctx, key); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Failed to remove document object")
	}
}
