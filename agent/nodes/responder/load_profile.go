package respondernode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
)

func LoadProfile(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	profile, err := store.Load(ctx, in.ContactKey)
	if err != nil {
		if !errors.Is(err, statex.ErrProfileNotFound) {
			return nil, err
		}
		profile = statex.NewProfile(in.ContactKey, in.Now)
	}

	in.Profile = profile
	return in, nil
}
