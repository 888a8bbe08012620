package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

func TestConfigured(t *testing.T) {
	logger := logging.NewText("error")
	assert.False(t, NewClient("", "", logger).Configured())
	assert.False(t, NewClient("https://crm.example.com", "", logger).Configured())
	assert.False(t, NewClient("", "key", logger).Configured())
	assert.True(t, NewClient("https://crm.example.com", "key", logger).Configured())
}

func TestPushContact(t *testing.T) {
	var got pushRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pushResponse{ID: "crm-42"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-key", logging.NewText("error"))
	id, err := client.PushContact(context.Background(), Contact{
		Name:  "John Doe",
		Email: "john@example.com",
		Phone: "+6491234567",
		City:  "Auckland",
	})
	require.NoError(t, err)
	assert.Equal(t, "crm-42", id)
	assert.Equal(t, "Bearer secret-key", auth)
	assert.Equal(t, ContactSource, got.Contact.Source)
	assert.Equal(t, []string{"lead"}, got.Contact.Tags)
	assert.Equal(t, "John Doe", got.Contact.Name)
}

func TestPushContact_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", logging.NewText("error"))
	_, err := client.PushContact(context.Background(), Contact{Name: "John"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPushContact_NonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", logging.NewText("error"))
	id, err := client.PushContact(context.Background(), Contact{Name: "John"})
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestPushContact_NotConfigured(t *testing.T) {
	client := NewClient("", "", logging.NewText("error"))
	_, err := client.PushContact(context.Background(), Contact{Name: "John"})
	assert.Error(t, err)
}
