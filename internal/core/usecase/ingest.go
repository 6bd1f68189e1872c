package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
)

// IngestDocumentUseCase accepts account forms for asynchronous NIGO review.
type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue

	now   func() time.Time
	newID func() string
}

func NewIngestDocumentUseCase(repo ports.DocumentRepository, storage ports.ObjectStorage, queue ports.MessageQueue) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Upload stores the form, records it as uploaded and queues it for review.
// A form that cannot be queued is marked failed so it never waits forever.
func (uc *IngestDocumentUseCase) Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("filename is required"))
	}

	now := uc.now().UTC()
	doc := &domain.Document{
		ID:        uc.newID(),
		Filename:  filename,
		MimeType:  mimeType,
		Status:    domain.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.StoragePath = storageKeyFor(doc.ID, filename)

	if err := uc.storage.Save(ctx, doc.StoragePath, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, doc.ID); err != nil {
		if statusErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, "queueing failed: "+err.Error()); statusErr != nil {
			slog.ErrorContext(ctx, "document_status_update_failed", "document_id", doc.ID, "error", statusErr.Error())
		}
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	slog.InfoContext(ctx, "document_queued", "document_id", doc.ID, "filename", doc.Filename)
	return doc, nil
}

// GetByID returns the document with its analysis once processed.
func (uc *IngestDocumentUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func storageKeyFor(id, filename string) string {
	return id + "_" + sanitizeFilename(filename)
}

func sanitizeFilename(name string) string {
	base := unsafeKeyChars.ReplaceAllString(filepath.Base(name), "_")
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
