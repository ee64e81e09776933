package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/forPelevin/vid2article/internal/errs"
	"github.com/forPelevin/vid2article/internal/types"
)

const (
	defaultModel          = "google/gemini-2.5-flash"
	defaultRequestTimeout = 5 * time.Minute
	completionsPath       = "/api/v1/chat/completions"
)

type Adapter struct {
	key            string
	model          string
	baseURL        string
	client         *http.Client
	requestTimeout time.Duration
	log            *slog.Logger
}

// Option customizes the adapter.
type Option func(*Adapter)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) {
		if c != nil {
			a.client = c
		}
	}
}

// WithRequestTimeout bounds every individual model call.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.requestTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

func New(apiKey, model, baseURL string, opts ...Option) *Adapter {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	a := &Adapter{
		key:            strings.TrimSpace(apiKey),
		model:          strings.TrimSpace(model),
		baseURL:        endpointURL(baseURL),
		client:         &http.Client{},
		requestTimeout: defaultRequestTimeout,
		log:            slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "openrouter", "model", a.model)
	return a
}

type part map[string]any

func textPart(s string) part {
	return part{"type": "text", "text": s}
}

func imagePart(m types.Media) part {
	return part{"type": "image_url", "image_url": map[string]any{"url": m.DataURI()}}
}

func videoPart(m types.Media) part {
	return part{"type": "video_url", "video_url": map[string]any{"url": m.DataURI()}}
}

// complete sends one schema-constrained request and decodes the JSON answer into out.
func (a *Adapter) complete(ctx context.Context, op, schemaName string, schema map[string]any, parts []part, out any) error {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": parts},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"strict": true,
				"schema": schema,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	a.log.Debug("model request", "op", op, "parts", len(parts), "bytes", len(body))

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%s: openrouter timeout after %s (model=%s)", op, a.requestTimeout, a.model)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("%s: openrouter status %d and read body failed: %v", op, resp.StatusCode, readErr)
		}
		return fmt.Errorf("%s: openrouter status %d: %s", op, resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			FinishReason string `json:"finish_reason"`
			Message      struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return &errs.InvalidResponseError{Op: op, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(raw.Choices) == 0 {
		return &errs.InvalidResponseError{Op: op, Err: errors.New("no choices in response")}
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return &errs.InvalidResponseError{Op: op, Err: err}
	}
	clean, err := extractJSONObject(content)
	if err != nil {
		return &errs.InvalidResponseError{Op: op, Snippet: truncate(content, 200), Err: err}
	}
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return &errs.InvalidResponseError{Op: op, Snippet: truncate(clean, 200), Err: err}
	}

	a.log.Debug("model response", "op", op, "finish_reason", raw.Choices[0].FinishReason, "elapsed", time.Since(started))
	return nil
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	case nil:
		return "", errors.New("openrouter: empty content")
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
