package cities

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

type fakeLookup struct {
	mu      sync.Mutex
	queries []string
	results map[string][]Suggestion
	err     error
	block   chan struct{}
}

func (f *fakeLookup) SuggestByPrefix(ctx context.Context, prefix string) ([]Suggestion, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.queries = append(f.queries, prefix)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results[prefix], nil
}

func (f *fakeLookup) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func collect() (func([]Suggestion), <-chan []Suggestion) {
	ch := make(chan []Suggestion, 8)
	return func(s []Suggestion) { ch <- s }, ch
}

func TestType_BurstTriggersOneLookup(t *testing.T) {
	lookup := &fakeLookup{results: map[string][]Suggestion{
		"Auc": {{Name: "Auckland", Region: "Auckland"}},
	}}
	s := NewSuggester(lookup, logging.NewText("error")).WithDelay(30 * time.Millisecond)
	deliver, ch := collect()

	ctx := context.Background()
	s.Type(ctx, "A", deliver)
	got := <-ch // too short, delivered immediately
	assert.Nil(t, got)

	s.Type(ctx, "Au", deliver)
	time.Sleep(10 * time.Millisecond) // within the window
	s.Type(ctx, "Auc", deliver)

	select {
	case got = <-ch:
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}
	require.Len(t, got, 1)
	assert.Equal(t, "Auckland", got[0].Name)

	// Only the final keystroke reached the lookup.
	assert.Equal(t, []string{"Auc"}, lookup.seen())
}

func TestType_ShortInputDeliversNilWithoutLookup(t *testing.T) {
	lookup := &fakeLookup{}
	s := NewSuggester(lookup, logging.NewText("error")).WithDelay(10 * time.Millisecond)
	deliver, ch := collect()

	for _, input := range []string{"", "a", "  a  "} {
		s.Type(context.Background(), input, deliver)
		assert.Nil(t, <-ch)
	}
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, lookup.seen())
}

func TestType_StaleResponseDiscarded(t *testing.T) {
	lookup := &fakeLookup{
		results: map[string][]Suggestion{
			"Wellington": {{Name: "Wellington"}},
			"Hamilton":   {{Name: "Hamilton"}},
		},
		block: make(chan struct{}),
	}
	s := NewSuggester(lookup, logging.NewText("error")).WithDelay(5 * time.Millisecond)
	deliver, ch := collect()
	ctx := context.Background()

	s.Type(ctx, "Wellington", deliver)
	time.Sleep(20 * time.Millisecond) // the Wellington lookup is now blocked in flight

	s.Type(ctx, "Hamilton", deliver)
	close(lookup.block)

	select {
	case got := <-ch:
		require.Len(t, got, 1)
		assert.Equal(t, "Hamilton", got[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}

	// The in-flight Wellington result was dropped, never delivered late.
	select {
	case got := <-ch:
		t.Fatalf("unexpected extra delivery: %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestType_LookupErrorDeliversNil(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("db down")}
	s := NewSuggester(lookup, logging.NewText("error")).WithDelay(5 * time.Millisecond)
	deliver, ch := collect()

	s.Type(context.Background(), "Auckland", deliver)
	select {
	case got := <-ch:
		assert.Nil(t, got)
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}
}

func TestCancel_DropsPendingLookup(t *testing.T) {
	lookup := &fakeLookup{}
	s := NewSuggester(lookup, logging.NewText("error")).WithDelay(20 * time.Millisecond)
	deliver, ch := collect()

	s.Type(context.Background(), "Auckland", deliver)
	s.Cancel()

	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery after cancel: %v", got)
	case <-time.After(60 * time.Millisecond):
	}
	assert.Empty(t, lookup.seen())
}
