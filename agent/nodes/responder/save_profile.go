package respondernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
)

func SaveProfile(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil || in.Profile == nil {
		return nil, fmt.Errorf("%w: graph profile is nil", contractx.ErrValidation)
	}

	in.Profile.RecordSummary(in.Analysis.Summary, in.Now)
	if err := store.Save(ctx, in.Profile); err != nil {
		return nil, err
	}
	return in, nil
}
