package ai

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.1-8b-instant", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "plan a trip", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"name\":\"x\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL+"/", "llama-3.1-8b-instant")
	out, err := p.Generate(context.Background(), "plan a trip")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, out)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   string
	}{
		"api error":     {http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, "openai: api error (status 429): rate limited"},
		"plain failure": {http.StatusBadGateway, `bad gateway`, "openai: status 502: bad gateway"},
		"no choices":    {http.StatusOK, `{"choices":[]}`, "openai: API returned empty choices array"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewOpenAIProvider("k", srv.URL, "m").Generate(context.Background(), "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstream)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestProviders_MissingKeyFailsAtCallTime(t *testing.T) {
	_, err := NewOpenAIProvider("", "", "").Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.EqualError(t, err, "openai: missing api key")

	g := NewGeminiProvider("", "")
	defer g.Close()
	_, err = g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.EqualError(t, err, "gemini: missing api key")

	_, err = NewGeminiEmbedder("", "").Embed(context.Background(), "p")
	assert.ErrorIs(t, err, ErrUpstream)
}

type flakyProvider struct {
	failures int
	calls    int
}

func (f *flakyProvider) Generate(context.Context, string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("boom")
	}
	return "ok", nil
}

func TestWithRetry(t *testing.T) {
	f := &flakyProvider{failures: 2}
	out, err := WithRetry(f, 3, time.Millisecond).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, f.calls)

	f = &flakyProvider{failures: 5}
	_, err = WithRetry(f, 2, time.Millisecond).Generate(context.Background(), "p")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 2, f.calls)

	// A single attempt is the provider itself.
	f = &flakyProvider{}
	assert.Same(t, f, WithRetry(f, 1, time.Second))
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &flakyProvider{failures: 5}
	_, err := WithRetry(f, 4, time.Hour).Generate(ctx, "p")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, f.calls)
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashEmbedder(t *testing.T) {
	e := NewHashEmbedder(0)
	assert.Equal(t, DefaultHashDimensions, e.Dimensions())
	ctx := context.Background()

	museums, _ := e.Embed(ctx, "I like museums and Italian food")
	again, _ := e.Embed(ctx, "i LIKE museums, and italian food!")
	art, _ := e.Embed(ctx, "museums and art galleries")
	beach, _ := e.Embed(ctx, "surfing on tropical beaches")

	require.Len(t, museums, DefaultHashDimensions)
	assert.InDelta(t, 1.0, cosine(museums, again), 1e-6)
	assert.Greater(t, cosine(museums, art), cosine(museums, beach))

	empty, err := e.Embed(ctx, "  !! ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, cosine(empty, museums))
}
