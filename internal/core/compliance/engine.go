// Package compliance runs the NIGO ("Not In Good Order") rule battery over a
// document transcript and scores it against the required-field checklist.
package compliance

import (
	"errors"
	"math"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// Engine evaluates the rule battery. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	catalog        *Catalog
	now            func() time.Time
	staleAfterDays int
	rules          []rule
}

type Option func(*Engine)

// WithClock replaces the wall clock used by the signature-date staleness rule.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithCatalog(c *Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithStaleAfterDays overrides the catalog's signature staleness threshold.
func WithStaleAfterDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.staleAfterDays = days
		}
	}
}

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{now: time.Now, rules: battery}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		c, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		e.catalog = c
	}
	if e.staleAfterDays <= 0 {
		e.staleAfterDays = e.catalog.SignatureDate.StaleAfterDays
	}
	return e, nil
}

// Check runs every rule in order and scores the transcript.
func (e *Engine) Check(t Transcript) (domain.CheckResult, error) {
	if t.Empty() {
		return domain.CheckResult{}, domain.WrapError(domain.ErrInvalidInput, "check document", errors.New("transcript is empty"))
	}

	findings := make([]domain.Finding, 0, len(e.rules))
	for _, r := range e.rules {
		if f, ok := r.evaluate(e, t); ok {
			findings = append(findings, f)
		}
	}

	passed, total := e.score(t)
	score := 0.0
	if total > 0 {
		score = math.Round(float64(passed)/float64(total)*1000) / 10
	}

	return domain.CheckResult{
		Errors:          findings,
		ConfidenceScore: score,
		TotalChecks:     total,
		PassedChecks:    passed,
		NIGOStatus:      domain.DeriveNIGOStatus(findings),
	}, nil
}

// CheckText is a shorthand for Check(NewTranscript(text, nil)).
func (e *Engine) CheckText(text string) (domain.CheckResult, error) {
	return e.Check(NewTranscript(text, nil))
}

func (e *Engine) score(t Transcript) (passed, total int) {
	for _, item := range e.catalog.Checklist {
		total++
		if t.containsAny([]string{item.Term}) {
			passed++
		}
	}
	return passed, total
}
