package call

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fairvio/backend/internal/chat"
	"fairvio/backend/internal/config"
	"fairvio/backend/internal/models"
)

// FallbackSummary is sent when no transcript is available to summarize.
// It mirrors the canned text of the consultation line.
const FallbackSummary = "Your call with our legal assistant has been summarized. The main topics discussed were workplace safety concerns and potential violations of labor regulations. We recommend documenting the issues you mentioned and considering filing a formal complaint with your local labor department."

// Placer places the outbound call.
type Placer interface {
	PlaceCall(ctx context.Context, toNumber string) (*PlacementResult, error)
}

// Summarizer produces the end-of-call summary from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, history []chat.HistoryEntry) (string, error)
}

// HandoffSink receives the finished summary for the chat/report screens.
type HandoffSink interface {
	Put(key, summary string) error
}

// Timings parameterizes the simulated lifecycle so tests can shrink it.
type Timings struct {
	ConnectingDelay time.Duration
	Tick            time.Duration
	SummaryDelay    time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		ConnectingDelay: config.CallConnectingDelay,
		Tick:            config.CallDurationTick,
		SummaryDelay:    config.SummaryGenerateDelay,
	}
}

// Session drives one call's displayed lifecycle: connecting, then active
// with a one-second duration counter, then ended with a summary. The
// displayed status is simulated on fixed timers and is deliberately
// independent of whether the carrier request succeeded; real status
// callbacks from the carrier would replace the timers.
type Session struct {
	timings    Timings
	placer     Placer
	summarizer Summarizer
	handoff    HandoffSink
	log        zerolog.Logger

	updates  chan models.CallUpdate
	commands chan models.CallCommand
}

func NewSession(timings Timings, placer Placer, summarizer Summarizer, handoff HandoffSink, log zerolog.Logger) *Session {
	return &Session{
		timings:    timings,
		placer:     placer,
		summarizer: summarizer,
		handoff:    handoff,
		log:        log,
		updates:    make(chan models.CallUpdate, 16),
		commands:   make(chan models.CallCommand, 1),
	}
}

// Updates is the status stream. It is closed when the session finishes.
func (s *Session) Updates() <-chan models.CallUpdate {
	return s.updates
}

// End requests the end of the call. Safe to call once.
func (s *Session) End(cmd models.CallCommand) {
	select {
	case s.commands <- cmd:
	default:
	}
}

// Run executes the lifecycle until the caller ends it or ctx is cancelled.
// All timers are stopped before Run returns, and the updates channel is
// closed so the transport tears down cleanly.
func (s *Session) Run(ctx context.Context, visitorKey, phoneNumber string) {
	defer close(s.updates)

	// Side effect first; the displayed lifecycle does not wait for it.
	go func() {
		if _, err := s.placer.PlaceCall(ctx, phoneNumber); err != nil {
			s.log.Error().Err(err).Msg("call placement failed")
		}
	}()

	s.send(models.CallUpdate{Status: models.CallConnecting})

	connecting := time.NewTimer(s.timings.ConnectingDelay)
	defer connecting.Stop()

	var (
		ticker   *time.Ticker
		tickCh   <-chan time.Time
		duration int
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-connecting.C:
			ticker = time.NewTicker(s.timings.Tick)
			tickCh = ticker.C
			s.send(models.CallUpdate{Status: models.CallActive})

		case <-tickCh:
			duration++
			s.send(models.CallUpdate{Status: models.CallActive, Duration: duration})

		case cmd := <-s.commands:
			if ticker != nil {
				ticker.Stop()
				tickCh = nil
			}
			s.finish(ctx, visitorKey, duration, cmd.Transcript)
			return

		case <-ctx.Done():
			// Caller went away; timers die with the session, nothing to save.
			return
		}
	}
}

func (s *Session) finish(ctx context.Context, visitorKey string, duration int, transcript string) {
	s.send(models.CallUpdate{Status: models.CallEnded, Duration: duration})

	summary := s.summarize(ctx, transcript)
	if summary == "" {
		s.send(models.CallUpdate{Status: models.CallEnded, Duration: duration, Error: "summary unavailable"})
		return
	}

	if err := s.handoff.Put(visitorKey, summary); err != nil {
		s.log.Error().Err(err).Msg("could not store call summary hand-off")
	}
	s.send(models.CallUpdate{Status: models.CallEnded, Duration: duration, Summary: summary})
}

func (s *Session) summarize(ctx context.Context, transcript string) string {
	if transcript != "" && s.summarizer != nil {
		history := []chat.HistoryEntry{{Role: models.RoleUser, Content: transcript}}
		summary, err := s.summarizer.Summarize(ctx, history)
		if err == nil {
			return summary
		}
		s.log.Warn().Err(err).Msg("summary request failed, using fallback")
	}

	// Placeholder path: a fixed delay, then the canned summary.
	select {
	case <-time.After(s.timings.SummaryDelay):
		return FallbackSummary
	case <-ctx.Done():
		return ""
	}
}

func (s *Session) send(u models.CallUpdate) {
	select {
	case s.updates <- u:
	default:
		s.log.Warn().Str("status", u.Status).Msg("dropping call update, slow consumer")
	}
}
