package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ingestedEvent is the payload of a document.ingested message.
type ingestedEvent struct {
	DocumentID  string    `json:"document_id"`
	PublishedAt time.Time `json:"published_at"`
}

func encodeEvent(documentID string, at time.Time) ([]byte, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, errors.New("document id is empty")
	}
	return json.Marshal(ingestedEvent{DocumentID: documentID, PublishedAt: at.UTC()})
}

// decodeEvent accepts the JSON envelope and, for older publishers, a bare
// document id.
func decodeEvent(data []byte) (ingestedEvent, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return ingestedEvent{}, errors.New("empty message")
	}
	if !strings.HasPrefix(raw, "{") {
		return ingestedEvent{DocumentID: raw}, nil
	}
	var ev ingestedEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return ingestedEvent{}, fmt.Errorf("decode ingested event: %w", err)
	}
	if strings.TrimSpace(ev.DocumentID) == "" {
		return ingestedEvent{}, errors.New("ingested event has no document id")
	}
	return ev, nil
}
