package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwiclean/housewash-platform/internal/leads"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

type capturingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	err  error
}

func (s *capturingSender) Send(ctx context.Context, msg EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *capturingSender) all() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EmailMessage(nil), s.sent...)
}

func sampleLead() *leads.Lead {
	return &leads.Lead{
		ID:        "lead-1",
		Name:      "John Doe",
		Email:     "john@example.com",
		Phone:     "+6491234567",
		City:      "Auckland",
		ServiceID: "svc-1",
		Note:      "Two storey weatherboard",
	}
}

func TestSendNewLeadEmail(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, "admin@kiwiclean.co.nz", nil, logging.NewText("error"))

	err := d.SendNewLeadEmail(context.Background(), sampleLead(), "House Washing")
	require.NoError(t, err)

	sent := sender.all()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "admin@kiwiclean.co.nz", msg.To)
	assert.Equal(t, "New Lead: John Doe - House Washing", msg.Subject)
	assert.Contains(t, msg.Body, "Phone: +6491234567")
	assert.Contains(t, msg.Body, "City: Auckland")
	assert.Contains(t, msg.Body, "Service: House Washing")
	assert.Contains(t, msg.Body, "Message: Two storey weatherboard")
	assert.Contains(t, msg.HTML, "New Quote Request")
	assert.Contains(t, msg.HTML, "John Doe")
}

func TestSendNewLeadEmail_EmptyOptionalsRenderDash(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, "admin@kiwiclean.co.nz", nil, logging.NewText("error"))

	lead := sampleLead()
	lead.Email = ""
	lead.City = ""
	lead.Note = ""
	require.NoError(t, d.SendNewLeadEmail(context.Background(), lead, "House Washing"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, "Email: -")
	assert.Contains(t, sent[0].Body, "City: -")
	assert.Contains(t, sent[0].Body, "Message: -")
}

func TestSendNewLeadEmail_EscapesLeadMarkup(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, "admin@kiwiclean.co.nz", nil, logging.NewText("error"))

	lead := sampleLead()
	lead.Name = `Jane <b>Smith</b>`
	lead.Note = `<script>alert("hi")</script>`
	require.NoError(t, d.SendNewLeadEmail(context.Background(), lead, "House Washing"))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0].HTML, "<script>")
	assert.Contains(t, sent[0].HTML, "&lt;script&gt;")
	assert.Contains(t, sent[0].HTML, "Jane &lt;b&gt;Smith&lt;/b&gt;")
	// The plaintext body carries the raw text.
	assert.Contains(t, sent[0].Body, `<script>alert("hi")</script>`)
}

func TestSendNewLeadEmail_MissingConfig(t *testing.T) {
	d := NewDispatcher(nil, "admin@kiwiclean.co.nz", nil, logging.NewText("error"))
	assert.Error(t, d.SendNewLeadEmail(context.Background(), sampleLead(), "House Washing"))

	d = NewDispatcher(&capturingSender{}, "", nil, logging.NewText("error"))
	assert.Error(t, d.SendNewLeadEmail(context.Background(), sampleLead(), "House Washing"))
}

func TestLeadCreated_SendFailureIsSwallowed(t *testing.T) {
	sender := &capturingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, "admin@kiwiclean.co.nz", nil, logging.NewText("error")).Synchronous()

	// Must not panic or surface the error to the caller.
	d.LeadCreated(sampleLead(), "House Washing")
}

func TestLeadCreated_Background(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(sender, "admin@kiwiclean.co.nz", nil, logging.NewText("error"))

	d.LeadCreated(sampleLead(), "House Washing")

	deadline := time.After(2 * time.Second)
	for len(sender.all()) == 0 {
		select {
		case <-deadline:
			t.Fatal("email never sent")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.Len(t, sender.all(), 1)
}

func TestStubEmailSender(t *testing.T) {
	s := NewStubEmailSender(logging.NewText("error"))
	assert.NoError(t, s.Send(context.Background(), EmailMessage{To: "a@b.c", Subject: "x"}))
}
