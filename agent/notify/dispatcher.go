// Package notify fans captured contact details out to the operator. Both
// channels are optional; an unset channel is skipped, a failing one aborts
// the dispatch so the cycle does not suspend a profile silently.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

// Config carries the optional notification channel settings.
type Config struct {
	WebhookURL       string        `envconfig:"NOTIFICATIONS_HOOK"`
	PushbulletAPIKey string        `envconfig:"PUSHBULLET_API_KEY"`
	Timeout          time.Duration `envconfig:"NOTIFICATIONS_TIMEOUT" default:"10s"`
}

// Dispatcher delivers a captured contact to every configured channel.
type Dispatcher struct {
	webhook *Webhook
	push    *PushbulletClient
}

var _ contractx.Notifier = (*Dispatcher)(nil)

// NewDispatcher builds a dispatcher from cfg. Channels with blank settings
// stay disabled.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	d := &Dispatcher{}

	if strings.TrimSpace(cfg.WebhookURL) != "" {
		webhook, err := NewWebhook(cfg.WebhookURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		d.webhook = webhook
	}

	if strings.TrimSpace(cfg.PushbulletAPIKey) != "" {
		push, err := NewPushbulletClient(cfg.PushbulletAPIKey, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		d.push = push
	}

	return d, nil
}

// Enabled reports whether at least one channel is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && (d.webhook != nil || d.push != nil)
}

// ContactCaptured announces the contact on the hook first, then pushes a
// note titled after the profile so the operator sees who to follow up with.
func (d *Dispatcher) ContactCaptured(ctx context.Context, contactKey, contact string) error {
	if d.webhook != nil {
		if err := d.webhook.Notify(ctx, contactKey, contact); err != nil {
			return fmt.Errorf("notifications hook: %w", err)
		}
	}
	if d.push != nil {
		title := "I planned date with " + contactKey
		if err := d.push.PushNote(ctx, title, contact); err != nil {
			return fmt.Errorf("pushbullet: %w", err)
		}
	}
	return nil
}
