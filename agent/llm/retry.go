package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	logx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/logger"
)

// RetryPolicy bounds repeated generation attempts. The delay is flat, with no
// backoff growth, and an in-flight sequence cannot be aborted between
// attempts. Attempts counts total tries, not retries.
type RetryPolicy struct {
	Attempts int           `default:"3"`
	Delay    time.Duration `default:"90s"`
}

// DefaultRetryPolicy returns the policy the pipeline ships with: three
// attempts total, ninety seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 90 * time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// InvokeWithRetry runs call until it succeeds or the policy is spent. Each
// failure is logged with its label before the next try; exhaustion wraps the
// last error in ErrAttemptsExhausted. Successful structured results are
// logged pretty-printed for operational visibility, never for control flow.
func InvokeWithRetry[T any](ctx context.Context, policy RetryPolicy, label string, call func(context.Context) (T, error)) (T, error) {
	policy = policy.normalized()
	logger := logx.Component("llm.retry")

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			logStructuredOutput(logger, label, out)
			return out, nil
		}
		lastErr = err
		if attempt < policy.Attempts {
			logger.Warn().
				Str("call", label).
				Int("attempt", attempt).
				Err(err).
				Msg("generation attempt failed, retrying")
			time.Sleep(policy.Delay)
		}
	}

	var zero T
	return zero, fmt.Errorf("%w: %s failed after %d attempts: %v",
		contractx.ErrAttemptsExhausted, label, policy.Attempts, lastErr)
}

func logStructuredOutput(logger zerolog.Logger, label string, out any) {
	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Debug().Str("call", label).Msg("structured output not serializable")
		return
	}
	logger.Info().Str("call", label).Msgf("%s says:\n%s", label, pretty)
}
