package state

import (
	"errors"
	"strings"
	"time"
)

// Profile is the persistent per-contact record. The summary is the pipeline's
// working memory: it is rewritten only from analyzer output and encodes the
// conversation step inside its own text, so no separate phase field exists.
// Suspended marks a contact whose details were captured; this core sets it
// and never clears it.
type Profile struct {
	ContactKey string    `json:"contact_key"`
	Summary    string    `json:"summary,omitempty"`
	Suspended  bool      `json:"suspended,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var (
	ErrNilProfile        = errors.New("profile is nil")
	ErrInvalidContactKey = errors.New("contact key is empty")
)

// NewProfile returns a blank profile for a contact seen for the first time.
func NewProfile(contactKey string, now time.Time) *Profile {
	return &Profile{
		ContactKey: strings.TrimSpace(contactKey),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
}

// RecordSummary replaces the working summary with a fresh analyzer rewrite.
func (p *Profile) RecordSummary(summary string, now time.Time) {
	p.Summary = strings.TrimSpace(summary)
	p.Touch(now)
}

// Suspend marks the contact as captured. The summary is left as is: the
// contact path never rewrites it.
func (p *Profile) Suspend(now time.Time) {
	p.Suspended = true
	p.Touch(now)
}

func (p *Profile) Touch(now time.Time) {
	p.UpdatedAt = now.UTC()
}

func (p *Profile) Validate() error {
	if p == nil {
		return ErrNilProfile
	}
	if strings.TrimSpace(p.ContactKey) == "" {
		return ErrInvalidContactKey
	}
	return nil
}
