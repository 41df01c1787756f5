package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabmaster/internal/vocabulary"
)

func TestParseDraft(t *testing.T) {
	item, err := parseDraft("```json\n{\"word\":\" resilient \",\"meaning\":\"kiên cường\",\"type\":\"adjective\",\"ipaUK\":\"/rɪˈzɪl.i.ənt/\",\"example1\":\"She is resilient.\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "resilient", item.Word)
	assert.Equal(t, "kiên cường", item.Meaning)
	assert.Equal(t, "/rɪˈzɪl.i.ənt/", item.IpaUK)
	assert.Empty(t, item.MissingFields())

	_, err = parseDraft("not json")
	require.Error(t, err)

	_, err = parseDraft(`{"meaning":"x"}`)
	require.Error(t, err)
}

func TestParseDrafts(t *testing.T) {
	items, err := parseDrafts(`[{"word":"cat","meaning":"con mèo"},{"word":""},{"word":"dog"}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "dog", items[1].Word)

	items, err = parseDrafts("[]")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPromptsUseLanguage(t *testing.T) {
	assert.Contains(t, wordPrompt("serendipity", "Spanish"), `"serendipity"`)
	assert.Contains(t, wordPrompt("serendipity", "Spanish"), "Spanish")
	assert.Contains(t, imagePrompt(DefaultMeaningLanguage), "Vietnamese")
}

func newTestChatGPT(t *testing.T, handler http.HandlerFunc) *ChatGPT {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewChatGPT("test-key", "")
	require.NoError(t, err)
	c.apiURL = srv.URL
	return c
}

func TestChatGPTFromWord(t *testing.T) {
	c := newTestChatGPT(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Contains(t, req.Messages[1].Content, `"ubiquitous"`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"word\":\"ubiquitous\",\"meaning\":\"phổ biến\",\"type\":\"adjective\",\"example1\":\"Phones are ubiquitous.\"}"}}]}`))
	})

	item, err := c.FromWord(context.Background(), "ubiquitous")
	require.NoError(t, err)
	assert.Equal(t, "ubiquitous", item.Word)
	assert.Equal(t, "adjective", item.Type)
}

func TestChatGPTErrors(t *testing.T) {
	c := newTestChatGPT(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})
	_, err := c.FromWord(context.Background(), "word")
	require.ErrorIs(t, err, vocabulary.ErrUnavailable)
	assert.Contains(t, err.Error(), "invalid api key")

	c = newTestChatGPT(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad input"}}`))
	})
	_, err = c.FromWord(context.Background(), "word")
	require.Error(t, err)
	assert.False(t, errors.Is(err, vocabulary.ErrUnavailable))

	_, err = c.FromImage(context.Background(), nil, "image/png")
	require.ErrorIs(t, err, errors.ErrUnsupported)
}
