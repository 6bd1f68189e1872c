package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		retry  bool
		record bool
	}{
		{name: "canceled", err: context.Canceled, retry: false, record: false},
		{name: "open circuit", err: gobreaker.ErrOpenState, retry: true, record: true},
		{name: "bad gateway", err: &StatusError{StatusCode: http.StatusBadGateway}, retry: true, record: true},
		{name: "bad request", err: fmt.Errorf("wrapped: %w", &StatusError{StatusCode: http.StatusBadRequest}), retry: false, record: false},
		{name: "network", err: timeoutError{}, retry: true, record: true},
		{name: "other", err: errors.New("decode"), retry: false, record: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHTTP(tt.err)
			if got.Retryable != tt.retry || got.RecordFailure != tt.record {
				t.Fatalf("ClassifyHTTP(%v) = %+v", tt.err, got)
			}
		})
	}
}

func TestWrapTemporary(t *testing.T) {
	err := WrapTemporary("ocr analyze", &StatusError{StatusCode: http.StatusServiceUnavailable}, ClassifyHTTP)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}

	permanent := &StatusError{StatusCode: http.StatusUnprocessableEntity}
	if err := WrapTemporary("ocr analyze", permanent, ClassifyHTTP); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("did not expect temporary error, got %v", err)
	}
	if WrapTemporary("ocr analyze", nil, ClassifyHTTP) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestNewStatusErrorIncludesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	http.Error(rec, "model unavailable", http.StatusBadGateway)

	err := NewStatusError("ollama", "generate", rec.Result())
	if err.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status code %d", err.StatusCode)
	}
	want := "ollama generate status: 502 Bad Gateway: model unavailable"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
