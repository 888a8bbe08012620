package cities

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

const (
	defaultDebounce = 300 * time.Millisecond
	minQueryLength  = 2
)

// Lookup answers a single prefix query.
type Lookup interface {
	SuggestByPrefix(ctx context.Context, prefix string) ([]Suggestion, error)
}

// Suggester debounces a burst of keystrokes into at most one lookup and
// guarantees only the latest query's result is ever delivered. Each
// keystroke cancels the previous timer; a monotonically increasing sequence
// number discards responses that finished after a newer keystroke arrived.
//
// The HTTP handler answers each query directly and stateless; Suggester is
// the composition point for embedders that hold a keystroke stream, such as
// a server-driven form session or a terminal admin client feeding Type per
// keypress.
//
// Lookup errors deliver an empty list and are logged: the city field is
// always optional, so a failed suggestion never blocks the form.
type Suggester struct {
	lookup Lookup
	delay  time.Duration
	logger *logging.Logger

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func NewSuggester(lookup Lookup, logger *logging.Logger) *Suggester {
	if logger == nil {
		logger = logging.Default()
	}
	return &Suggester{
		lookup: lookup,
		delay:  defaultDebounce,
		logger: logger,
	}
}

// WithDelay overrides the debounce window, mainly for tests.
func (s *Suggester) WithDelay(d time.Duration) *Suggester {
	if d > 0 {
		s.delay = d
	}
	return s
}

// Type registers a keystroke. deliver is invoked immediately with nil when
// the input is too short, otherwise with the lookup result after the
// debounce window elapses. If a newer keystroke supersedes this one first,
// deliver is never called.
func (s *Suggester) Type(ctx context.Context, input string, deliver func([]Suggestion)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	mySeq := s.seq

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	query := strings.TrimSpace(input)
	if len(query) < minQueryLength {
		deliver(nil)
		return
	}

	s.timer = time.AfterFunc(s.delay, func() {
		if !s.current(mySeq) {
			return
		}
		suggestions, err := s.lookup.SuggestByPrefix(ctx, query)
		if err != nil {
			s.logger.Error("city suggestion lookup failed", "error", err, "query", query)
			suggestions = nil
		}
		// Re-check: the lookup may have raced with a newer keystroke.
		if !s.current(mySeq) {
			return
		}
		deliver(suggestions)
	})
}

// Cancel drops any armed timer, e.g. when the form is dismissed.
func (s *Suggester) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Suggester) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}
