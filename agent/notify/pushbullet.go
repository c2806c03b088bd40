package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const pushbulletPushURL = "https://api.pushbullet.com/v2/pushes"

// PushbulletClient pushes short notes to the operator's devices.
type PushbulletClient struct {
	apiKey     string
	pushURL    string
	httpClient *http.Client
}

// NewPushbulletClient builds a client for the Pushbullet pushes API.
func NewPushbulletClient(apiKey string, timeout time.Duration) (*PushbulletClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("pushbullet api key is required")
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &PushbulletClient{
		apiKey:     apiKey,
		pushURL:    pushbulletPushURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type pushNote struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushNote sends a note push with the given title and body.
func (p *PushbulletClient) PushNote(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(pushNote{Type: "note", Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.pushURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Access-Token", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call pushbullet: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushbullet returned %s", resp.Status)
	}
	return nil
}
