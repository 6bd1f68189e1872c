package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

func TestExplainUsesNarrator(t *testing.T) {
	uc := NewMentorUseCase(&narratorFake{explanation: "Bonds are loans you make."})

	got, err := uc.Explain(context.Background(), "bonds", `{"holding":"Bond Fund"}`)
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if !got.Generated || got.Explanation != "Bonds are loans you make." {
		t.Fatalf("unexpected explanation: %+v", got)
	}
}

func TestExplainFallsBackToGlossary(t *testing.T) {
	uc := NewMentorUseCase(&narratorFake{err: errors.New("model offline")})

	got, err := uc.Explain(context.Background(), "Diversification", "")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if got.Generated || !strings.HasPrefix(got.Explanation, "Diversification is like not putting all your eggs") {
		t.Fatalf("unexpected explanation: %+v", got)
	}

	other, _ := NewMentorUseCase(nil).Explain(context.Background(), "Step-up basis", "")
	if !strings.HasPrefix(other.Explanation, "**Step-up basis** is an important financial concept.") {
		t.Fatalf("unexpected default explanation: %q", other.Explanation)
	}
}

func TestExplainRequiresConcept(t *testing.T) {
	_, err := NewMentorUseCase(nil).Explain(context.Background(), " ", "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
