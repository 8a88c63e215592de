package brave

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, rt roundTripperFunc) Client {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	c, err := New(log, Config{APIKey: "test-key", BaseURL: "https://brave.test", Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.(*client).httpClient = &http.Client{Transport: rt}
	return c
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestSearchWebFormatsResults(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Fatalf("token header: %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "rivoluzione francese" {
			t.Fatalf("query: %q", got)
		}
		return jsonResponse(`{"web": {"results": [
			{"title": "Rivoluzione francese", "url": "https://it.wikipedia.org/rf", "description": "1789"},
			{"title": "Storia", "url": "https://example.org", "description": "approfondimento"}
		]}}`), nil
	})

	out, err := c.SearchWeb(context.Background(), "rivoluzione francese", 5)
	if err != nil {
		t.Fatalf("SearchWeb: %v", err)
	}
	for _, want := range []string{"Rivoluzione francese", "https://it.wikipedia.org/rf", "1789"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchWebNoResults(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(`{"web": {"results": []}}`), nil
	})
	out, err := c.SearchWeb(context.Background(), "xyzzy", 5)
	if err != nil {
		t.Fatalf("SearchWeb: %v", err)
	}
	if !strings.Contains(out, "Nessun risultato") {
		t.Fatalf("output: %q", out)
	}
}

func TestSearchWebHTTPError(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(bytes.NewBufferString(`{"error": "bad key"}`)),
			Header:     make(http.Header),
		}, nil
	})
	if _, err := c.SearchWeb(context.Background(), "storia", 5); err == nil {
		t.Fatal("want error on http 401")
	}
}

func TestSearchImages(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if !strings.Contains(r.URL.Path, "/images/") {
			t.Fatalf("path: %q", r.URL.Path)
		}
		return jsonResponse(`{"results": [
			{"title": "Bastiglia", "url": "https://page", "properties": {"url": "https://img/bastiglia.jpg"}}
		]}`), nil
	})
	out, err := c.SearchImages(context.Background(), "bastiglia", 3)
	if err != nil {
		t.Fatalf("SearchImages: %v", err)
	}
	if !strings.Contains(out, "https://img/bastiglia.jpg") {
		t.Fatalf("output: %q", out)
	}
}
