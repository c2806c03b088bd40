package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Webhook announces a captured contact with a GET to an operator-owned URL.
type Webhook struct {
	hookURL    *url.URL
	httpClient *http.Client
}

// NewWebhook validates the hook URL and builds the channel.
func NewWebhook(rawURL string, timeout time.Duration) (*Webhook, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("notifications hook url is required")
	}

	hookURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse notifications hook url: %w", err)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Webhook{
		hookURL:    hookURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Notify sends the contact as name_age and contact query parameters.
func (w *Webhook) Notify(ctx context.Context, contactKey, contact string) error {
	target := *w.hookURL
	query := target.Query()
	query.Set("name_age", contactKey)
	query.Set("contact", contact)
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build hook request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call hook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hook returned %s", resp.Status)
	}
	return nil
}
