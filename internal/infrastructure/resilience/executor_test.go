package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

var errOCRDown = errors.New("ocr unavailable")

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
	}
}

func classifyAs(retryable, record bool) ErrorClassifier {
	return func(error) ErrorClassification {
		return ErrorClassification{Retryable: retryable, RecordFailure: record}
	}
}

func TestExecuteRetryBudget(t *testing.T) {
	tests := []struct {
		name         string
		failuresLeft int
		retryable    bool
		wantAttempts int
		wantErr      bool
	}{
		{name: "recovers within budget", failuresLeft: 2, retryable: true, wantAttempts: 3},
		{name: "exhausts budget", failuresLeft: 5, retryable: true, wantAttempts: 3, wantErr: true},
		{name: "permanent error stops at once", failuresLeft: 5, retryable: false, wantAttempts: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := NewExecutor(fastConfig())
			attempts := 0
			err := exec.Execute(context.Background(), "ocr.analyze", func(context.Context) error {
				attempts++
				if attempts <= tt.failuresLeft {
					return errOCRDown
				}
				return nil
			}, classifyAs(tt.retryable, true))

			if attempts != tt.wantAttempts {
				t.Fatalf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errOCRDown) {
				t.Fatalf("expected the collaborator error, got %v", err)
			}
		})
	}
}

func TestExecuteStopsWhenContextEnds(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryInitialBackoff = time.Second
	cfg.RetryMaxBackoff = time.Second
	exec := NewExecutor(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := exec.Execute(ctx, "ollama.generate", func(context.Context) error {
		attempts++
		cancel()
		return errOCRDown
	}, classifyAs(true, true))

	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
	if !errors.Is(err, errOCRDown) {
		t.Fatalf("expected last collaborator error, got %v", err)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := NewExecutor(cfg)

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "ocr.analyze", func(context.Context) error {
			return errOCRDown
		}, classifyAs(false, true))
		if !errors.Is(err, errOCRDown) {
			t.Fatalf("call %d: expected collaborator error, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "ocr.analyze", func(context.Context) error {
		t.Fatal("open circuit must not call the collaborator")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestUnrecordedFailuresKeepCircuitClosed(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 1
	exec := NewExecutor(cfg)

	for i := 0; i < 3; i++ {
		_ = exec.Execute(context.Background(), "nats.publish", func(context.Context) error {
			return context.Canceled
		}, classifyAs(false, false))
	}
	if got := exec.BreakerState("nats.publish"); got != "closed" {
		t.Fatalf("BreakerState() = %q, want closed", got)
	}
}

type recordingObserver struct {
	retries int
	states  []string
}

func (o *recordingObserver) RetryAttempt(string) { o.retries++ }

func (o *recordingObserver) BreakerStateChanged(_ string, state string) {
	o.states = append(o.states, state)
}

func TestExecuteNotifiesObserver(t *testing.T) {
	observer := &recordingObserver{}
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 2
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 1
	cfg.BreakerOpenTimeout = time.Minute
	cfg.Observer = observer
	exec := NewExecutor(cfg)

	err := exec.Execute(context.Background(), "ocr.analyze", func(context.Context) error {
		return errOCRDown
	}, classifyAs(true, true))
	if !errors.Is(err, errOCRDown) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
	if observer.retries != 1 {
		t.Fatalf("expected 1 retry notification, got %d", observer.retries)
	}
	if len(observer.states) != 1 || observer.states[0] != "open" {
		t.Fatalf("expected breaker to open, got %v", observer.states)
	}
	if got := exec.BreakerState("ocr.analyze"); got != "open" {
		t.Fatalf("BreakerState() = %q, want open", got)
	}
	if got := exec.BreakerState("unused"); got != "closed" {
		t.Fatalf("BreakerState(unused) = %q, want closed", got)
	}
}

func TestBackoffIsCapped(t *testing.T) {
	b := newBackoff(Config{RetryInitialBackoff: 100 * time.Millisecond, RetryMaxBackoff: 250 * time.Millisecond, RetryMultiplier: 2})
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}
	for i, w := range want {
		if got := b.next(); got != w {
			t.Fatalf("wait %d = %v, want %v", i, got, w)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{RetryInitialBackoff: time.Second, RetryMultiplier: 0.5}.withDefaults()
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("RetryMaxAttempts = %d, want 3", cfg.RetryMaxAttempts)
	}
	if cfg.RetryMaxBackoff != time.Second {
		t.Fatalf("max backoff should not fall below the initial backoff, got %v", cfg.RetryMaxBackoff)
	}
	if cfg.RetryMultiplier != 2 {
		t.Fatalf("RetryMultiplier = %v, want 2", cfg.RetryMultiplier)
	}
	if cfg.Observer == nil {
		t.Fatal("expected a discard observer")
	}
}
