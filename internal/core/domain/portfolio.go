package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DefaultAssetClass = "Mixed Assets"

// Holding is one line item of a portfolio.
type Holding struct {
	Name         string   `json:"name,omitempty"`
	Type         string   `json:"type,omitempty"`
	Category     string   `json:"category,omitempty"`
	Value        float64  `json:"value"`
	Shares       float64  `json:"shares,omitempty"`
	AssetClasses []string `json:"asset_classes,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Label is the name used when describing the holding to a person.
func (h Holding) Label() string {
	for _, candidate := range []string{h.Name, h.Category, h.Type} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return "Unknown Holding"
}

type Portfolio struct {
	TotalValue  float64   `json:"total_value"`
	Holdings    []Holding `json:"holdings"`
	SourceFile  string    `json:"source_file,omitempty"`
	ExtractedAt time.Time `json:"extracted_at,omitempty"`
}

func (p Portfolio) HoldingsValue() float64 {
	var sum float64
	for _, h := range p.Holdings {
		sum += h.Value
	}
	return sum
}

func (p Portfolio) Validate() error {
	if p.TotalValue < 0 {
		return WrapError(ErrInvalidInput, "validate portfolio", errors.New("total_value must not be negative"))
	}
	for i, h := range p.Holdings {
		if h.Value < 0 {
			return WrapError(ErrInvalidInput, "validate portfolio", fmt.Errorf("holding %d value must not be negative", i))
		}
	}
	return nil
}

// Case is a persisted portfolio upload together with its goal cards.
type Case struct {
	ID              string         `json:"case_id"`
	SourceDocument  string         `json:"source_document"`
	Portfolio       Portfolio      `json:"portfolio_data"`
	ExtractedText   string         `json:"extracted_text,omitempty"`
	Summary         string         `json:"summary"`
	GoalCards       []GoalCard     `json:"goal_cards"`
	ConfidenceLevel ConfidenceTier `json:"confidence_level"`
	StorageKey      string         `json:"storage_key,omitempty"`
	UploadedAt      time.Time      `json:"uploaded_at"`
}
