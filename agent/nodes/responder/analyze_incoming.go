package respondernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

func AnalyzeIncoming(
	ctx context.Context,
	in *GraphState,
	analyzer contractx.Analyzer,
) (*GraphState, error) {
	if in == nil || in.Profile == nil {
		return nil, fmt.Errorf("%w: graph profile is nil", contractx.ErrValidation)
	}

	analysis, err := analyzer.Analyze(ctx, contractx.AnalyzeRequest{
		Summary:  in.Profile.Summary,
		Messages: in.Messages,
	})
	if err != nil {
		return nil, err
	}

	in.Analysis = analysis
	return in, nil
}
