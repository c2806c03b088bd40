package responder

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	llmx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/llm"
	respondernode "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/nodes/responder"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
	logx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/logger"
)

var (
	ErrInvalidMessages   = respondernode.ErrInvalidMessages
	ErrInvalidContactKey = respondernode.ErrInvalidContactKey
)

// Config carries the per-deployment knobs of the respond cycle. Language and
// city are injected into every writer prompt, so neither may be blank.
type Config struct {
	Language string `envconfig:"LANGUAGE" required:"true"`
	City     string `envconfig:"CITY" required:"true"`

	Retry llmx.RetryPolicy
}

type Responder struct {
	store    statex.Store
	models   contractx.Registry
	rules    contractx.RuleSource
	notifier contractx.Notifier

	graphRunner compose.Runnable[respondernode.GraphInput, respondernode.GraphOutput]

	language string
	city     string
	retry    llmx.RetryPolicy

	now func() time.Time
}

func New(
	store statex.Store,
	models contractx.Registry,
	rules contractx.RuleSource,
	notifier contractx.Notifier,
	cfg Config,
) (*Responder, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if rules == nil {
		return nil, errors.New("rule source is required")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		return nil, errors.New("language is required")
	}
	city := strings.TrimSpace(cfg.City)
	if city == "" {
		return nil, errors.New("city is required")
	}

	retry := cfg.Retry
	if retry.Attempts <= 0 {
		retry = llmx.DefaultRetryPolicy()
	}

	r := &Responder{
		store:    store,
		models:   models,
		rules:    rules,
		notifier: notifier,
		language: language,
		city:     city,
		retry:    retry,
		now:      time.Now,
	}

	graphRunner, err := r.compileRespondGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// Respond runs one conversation cycle over the girl's latest messages and
// returns the reply segments in sending order. An empty result means a
// contact detail was captured and the conversation has been suspended.
func (r *Responder) Respond(ctx context.Context, contactKey string, messages string) ([]string, error) {
	logger := logx.Component("responder").With().
		Str("cycle_id", uuid.NewString()).
		Str("contact_key", contactKey).
		Logger()

	out, err := r.graphRunner.Invoke(ctx, respondernode.GraphInput{
		ContactKey: contactKey,
		Messages:   messages,
	})
	if err != nil {
		return nil, err
	}

	if len(out.Messages) == 0 {
		logger.Info().Msg("contact captured, conversation suspended")
		return out.Messages, nil
	}
	logger.Info().Int("segments", len(out.Messages)).Msg("reply drafted")
	return out.Messages, nil
}

type noopNotifier struct{}

func (noopNotifier) ContactCaptured(context.Context, string, string) error {
	return nil
}
