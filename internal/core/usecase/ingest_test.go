package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

func TestIngestUploadSuccess(t *testing.T) {
	repo := &documentRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "account form 1.pdf", "application/pdf", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", doc.Status)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if queue.documentID != doc.ID {
		t.Fatalf("expected queued doc id %s, got %s", doc.ID, queue.documentID)
	}
	if !strings.HasSuffix(storage.savedKey, "_account_form_1.pdf") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "hello" {
		t.Fatalf("expected saved body hello, got %s", storage.savedBody)
	}
}

func TestIngestUploadRequiresFilename(t *testing.T) {
	uc := NewIngestDocumentUseCase(&documentRepoFake{}, &storageFake{}, &queueFake{})

	_, err := uc.Upload(context.Background(), "  ", "text/plain", bytes.NewBufferString("hello"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestIngestUploadQueueErrorMarksFailed(t *testing.T) {
	repo := &documentRepoFake{}
	uc := NewIngestDocumentUseCase(repo, &storageFake{}, &queueFake{err: errors.New("queue down")})

	_, err := uc.Upload(context.Background(), "report.txt", "text/plain", bytes.NewBufferString("hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish ingestion event") {
		t.Fatalf("expected publish error, got %v", err)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0].status != domain.StatusFailed {
		t.Fatalf("expected document marked failed, got %+v", repo.statusCalls)
	}
	if !strings.Contains(repo.statusCalls[0].errMsg, "queue down") {
		t.Fatalf("expected queue error in status message, got %q", repo.statusCalls[0].errMsg)
	}
}

func TestIngestUploadUsesClockAndID(t *testing.T) {
	repo := &documentRepoFake{}
	storage := &storageFake{}
	uc := NewIngestDocumentUseCase(repo, storage, &queueFake{})
	uc.now = func() time.Time { return time.Date(2026, time.October, 2, 8, 30, 0, 0, time.FixedZone("EST", -5*3600)) }
	uc.newID = func() string { return "doc-1" }

	doc, err := uc.Upload(context.Background(), "form.txt", "text/plain", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID != "doc-1" || storage.savedKey != "doc-1_form.txt" {
		t.Fatalf("unexpected id %q or key %q", doc.ID, storage.savedKey)
	}
	if want := time.Date(2026, time.October, 2, 13, 30, 0, 0, time.UTC); !doc.CreatedAt.Equal(want) || doc.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt = %v, want %v in UTC", doc.CreatedAt, want)
	}
}

func TestIngestGetByIDNotFound(t *testing.T) {
	uc := NewIngestDocumentUseCase(&documentRepoFake{}, &storageFake{}, &queueFake{})

	_, err := uc.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":   "passwd",
		"my form (1).pdf":    "my_form__1_.pdf",
		"":                   "document.bin",
		"statement-2026.ofx": "statement-2026.ofx",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
