package call_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"fairvio/backend/internal/call"
	"fairvio/backend/internal/chat"
	"fairvio/backend/internal/models"
)

type fakePlacer struct {
	mu     sync.Mutex
	called bool
	err    error
}

func (p *fakePlacer) PlaceCall(ctx context.Context, toNumber string) (*call.PlacementResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.called = true
	if p.err != nil {
		return nil, p.err
	}
	return &call.PlacementResult{Success: true, CallSID: "CA1"}, nil
}

type fakeSummarizer struct {
	summary string
	err     error
	gotHist []chat.HistoryEntry
}

func (s *fakeSummarizer) Summarize(ctx context.Context, history []chat.HistoryEntry) (string, error) {
	s.gotHist = history
	return s.summary, s.err
}

type fakeHandoff struct {
	mu      sync.Mutex
	key     string
	summary string
}

func (h *fakeHandoff) Put(key, summary string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = key
	h.summary = summary
	return nil
}

func shortTimings() call.Timings {
	return call.Timings{
		ConnectingDelay: 10 * time.Millisecond,
		Tick:            10 * time.Millisecond,
		SummaryDelay:    10 * time.Millisecond,
	}
}

// drain collects every update until the stream closes or the deadline hits.
func drain(t *testing.T, updates <-chan models.CallUpdate) []models.CallUpdate {
	t.Helper()
	var all []models.CallUpdate
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return all
			}
			all = append(all, u)
		case <-deadline:
			t.Fatal("update stream never closed")
		}
	}
}

func statuses(updates []models.CallUpdate) []string {
	var out []string
	for _, u := range updates {
		out = append(out, u.Status)
	}
	return out
}

func TestSession_LifecycleWithTranscript(t *testing.T) {
	placer := &fakePlacer{}
	summarizer := &fakeSummarizer{summary: "Worker described unpaid overtime."}
	sink := &fakeHandoff{}
	session := call.NewSession(shortTimings(), placer, summarizer, sink, zerolog.Nop())

	go session.Run(context.Background(), "visitor-1", "+15550003333")

	// Let it connect and tick at least once, then hang up.
	time.Sleep(40 * time.Millisecond)
	session.End(models.CallCommand{Action: "end", Transcript: "my boss does not pay overtime"})

	updates := drain(t, session.Updates())
	got := statuses(updates)

	assert.Equal(t, models.CallConnecting, got[0])
	assert.Contains(t, got, models.CallActive)

	last := updates[len(updates)-1]
	assert.Equal(t, models.CallEnded, last.Status)
	assert.Equal(t, "Worker described unpaid overtime.", last.Summary)
	assert.GreaterOrEqual(t, last.Duration, 1)

	assert.Equal(t, "visitor-1", sink.key)
	assert.Equal(t, "Worker described unpaid overtime.", sink.summary)
	assert.Equal(t, "my boss does not pay overtime", summarizer.gotHist[0].Content)
}

func TestSession_NoTranscriptUsesCannedSummary(t *testing.T) {
	sink := &fakeHandoff{}
	session := call.NewSession(shortTimings(), &fakePlacer{}, &fakeSummarizer{}, sink, zerolog.Nop())

	go session.Run(context.Background(), "visitor-1", "")
	time.Sleep(15 * time.Millisecond)
	session.End(models.CallCommand{Action: "end"})

	updates := drain(t, session.Updates())
	last := updates[len(updates)-1]

	assert.Equal(t, models.CallEnded, last.Status)
	assert.Equal(t, call.FallbackSummary, last.Summary)
	assert.Equal(t, call.FallbackSummary, sink.summary)
}

func TestSession_SummarizerFailureFallsBack(t *testing.T) {
	summarizer := &fakeSummarizer{err: errors.New("model down")}
	sink := &fakeHandoff{}
	session := call.NewSession(shortTimings(), &fakePlacer{}, summarizer, sink, zerolog.Nop())

	go session.Run(context.Background(), "visitor-1", "")
	time.Sleep(15 * time.Millisecond)
	session.End(models.CallCommand{Action: "end", Transcript: "something happened"})

	updates := drain(t, session.Updates())
	assert.Equal(t, call.FallbackSummary, updates[len(updates)-1].Summary)
}

func TestSession_PlacementFailureDoesNotStopLifecycle(t *testing.T) {
	placer := &fakePlacer{err: errors.New("carrier unreachable")}
	session := call.NewSession(shortTimings(), placer, &fakeSummarizer{}, &fakeHandoff{}, zerolog.Nop())

	go session.Run(context.Background(), "visitor-1", "")
	time.Sleep(30 * time.Millisecond)
	session.End(models.CallCommand{Action: "end"})

	got := statuses(drain(t, session.Updates()))
	assert.Contains(t, got, models.CallActive)
	assert.Contains(t, got, models.CallEnded)
}

func TestSession_ContextCancelClosesStream(t *testing.T) {
	sink := &fakeHandoff{}
	session := call.NewSession(shortTimings(), &fakePlacer{}, &fakeSummarizer{}, sink, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx, "visitor-1", "")
	time.Sleep(15 * time.Millisecond)
	cancel()

	drain(t, session.Updates())
	assert.Empty(t, sink.summary)
}
