package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aulavia/aulavia-backend/internal/platform/envutil"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

// Client wraps the Brave Search API. Results come back pre-formatted as
// text blocks ready to hand to a model.
type Client interface {
	SearchWeb(ctx context.Context, query string, count int) (string, error)
	SearchImages(ctx context.Context, query string, count int) (string, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:  strings.TrimSpace(os.Getenv("BRAVE_API_KEY")),
		BaseURL: strings.TrimSpace(os.Getenv("BRAVE_BASE_URL")),
		Timeout: time.Duration(envutil.Int("BRAVE_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing BRAVE_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.search.brave.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("client", "BraveClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type webResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

type imageResponse struct {
	Results []struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Properties struct {
			URL string `json:"url"`
		} `json:"properties"`
	} `json:"results"`
}

func (c *client) SearchWeb(ctx context.Context, query string, count int) (string, error) {
	raw, err := c.get(ctx, "/res/v1/web/search", query, count)
	if err != nil {
		return "", err
	}
	var parsed webResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("brave: decode web results: %w", err)
	}
	if len(parsed.Web.Results) == 0 {
		return "Nessun risultato trovato.", nil
	}
	var b strings.Builder
	for i, r := range parsed.Web.Results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s\n%s\n%s", r.Title, r.URL, r.Description)
	}
	return b.String(), nil
}

func (c *client) SearchImages(ctx context.Context, query string, count int) (string, error) {
	raw, err := c.get(ctx, "/res/v1/images/search", query, count)
	if err != nil {
		return "", err
	}
	var parsed imageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("brave: decode image results: %w", err)
	}
	if len(parsed.Results) == 0 {
		return "Nessuna immagine trovata.", nil
	}
	var b strings.Builder
	for i, r := range parsed.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		u := r.Properties.URL
		if u == "" {
			u = r.URL
		}
		fmt.Fprintf(&b, "%s: %s", r.Title, u)
	}
	return b.String(), nil
}

func (c *client) get(ctx context.Context, path, query string, count int) ([]byte, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("brave: query is empty")
	}
	if count <= 0 {
		count = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body := strings.TrimSpace(string(raw))
		if len(body) > 1000 {
			body = body[:1000] + "..."
		}
		return nil, fmt.Errorf("brave http %d: %s", resp.StatusCode, body)
	}
	return raw, nil
}
