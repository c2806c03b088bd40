package respondernode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

// guidanceSeparator sits between resolved rules; the leading dash belongs to
// the following rule, so the first rule carries none.
const guidanceSeparator = "\n###\n- "

func ResolveGuidance(
	ctx context.Context,
	in *GraphState,
	rules contractx.RuleSource,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Tactics.Tags) == 0 {
		return nil, fmt.Errorf("%w: no tags to resolve", contractx.ErrValidation)
	}

	resolved := make([]string, 0, len(in.Tactics.Tags))
	for _, tag := range in.Tactics.Tags {
		guidance, err := rules.Rule(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("resolve guidance for tag %q: %w", tag, err)
		}
		resolved = append(resolved, guidance)
	}

	in.Guidance = strings.Join(resolved, guidanceSeparator)
	return in, nil
}
