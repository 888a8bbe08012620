package cities

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

func TestSuggestEndpoint(t *testing.T) {
	lookup := &fakeLookup{results: map[string][]Suggestion{
		"Au": {
			{Name: "Auckland", Region: "Auckland"},
			{Name: "Auckland Central", Region: "Auckland"},
		},
	}}
	h := NewHandler(lookup, logging.NewText("error"))

	rr := httptest.NewRecorder()
	h.Suggest(rr, httptest.NewRequest(http.MethodGet, "/cities/suggest?q=Au", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Suggestions, 2)
	assert.Equal(t, "Auckland", body.Suggestions[0].Name)
}

func TestSuggestEndpoint_ShortQuery(t *testing.T) {
	lookup := &fakeLookup{}
	h := NewHandler(lookup, logging.NewText("error"))

	for _, q := range []string{"", "a", "%20%20"} {
		rr := httptest.NewRecorder()
		h.Suggest(rr, httptest.NewRequest(http.MethodGet, "/cities/suggest?q="+q, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"suggestions":[]}`, rr.Body.String())
	}
	assert.Empty(t, lookup.seen())
}

func TestSuggestEndpoint_LookupErrorReturnsEmptyList(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("db down")}
	h := NewHandler(lookup, logging.NewText("error"))

	rr := httptest.NewRecorder()
	h.Suggest(rr, httptest.NewRequest(http.MethodGet, "/cities/suggest?q=Auckland", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "db down")
}
