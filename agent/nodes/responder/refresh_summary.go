package respondernode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

// RefreshSummary folds the just-written reply back into the summary so tactic
// usage counters stay accurate. The reply is replayed to the analyzer as if
// the Conversator had already sent it; only the summary is taken from the
// second pass, phase and contact stay as first analyzed.
func RefreshSummary(
	ctx context.Context,
	in *GraphState,
	analyzer contractx.Analyzer,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Draft.Segments) == 0 {
		return nil, fmt.Errorf("%w: no draft to fold into summary", contractx.ErrValidation)
	}

	refreshed, err := analyzer.Analyze(ctx, contractx.AnalyzeRequest{
		Summary:  in.Analysis.Summary,
		Messages: "Conversator: " + strings.Join(in.Draft.Segments, "\n"),
	})
	if err != nil {
		return nil, err
	}

	in.Analysis.Summary = refreshed.Summary
	return in, nil
}
