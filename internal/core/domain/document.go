package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is an onboarding form submitted for asynchronous NIGO review.
type Document struct {
	ID          string            `json:"id"`
	Filename    string            `json:"filename"`
	MimeType    string            `json:"mime_type"`
	StoragePath string            `json:"storage_path"`
	Status      DocumentStatus    `json:"status"`
	Error       string            `json:"error,omitempty"`
	Analysis    *DocumentAnalysis `json:"analysis,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OCRBlock is one structured block returned by the OCR collaborator.
type OCRBlock struct {
	BlockType  string  `json:"block_type"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Transcript is the text of a document as produced by extraction or OCR.
type Transcript struct {
	Text   string     `json:"text"`
	Blocks []OCRBlock `json:"blocks,omitempty"`
}

// DocumentAnalysis is the full outcome of checking one document.
type DocumentAnalysis struct {
	ExtractedText     string         `json:"extracted_text"`
	Check             CheckResult    `json:"check"`
	ConfidenceLevel   ConfidenceTier `json:"confidence_level"`
	Review            ReviewMode     `json:"review"`
	TotalAccountValue float64        `json:"total_account_value"`
	AnalyzedAt        time.Time      `json:"analyzed_at"`
}
