package respondernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
)

// SuspendOnContact is the terminal node of the contact-exit path. The
// notification goes out before anything is written, so a delivery failure
// leaves the profile untouched and the cycle retriable. The stored summary
// is deliberately not refreshed here.
func SuspendOnContact(
	ctx context.Context,
	in *GraphState,
	notifier contractx.Notifier,
	store statex.Store,
) (GraphOutput, error) {
	if in == nil || in.Profile == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph profile is nil", contractx.ErrValidation)
	}
	if !in.Analysis.ContactDetected() {
		return GraphOutput{}, fmt.Errorf("%w: contact exit taken without a contact", contractx.ErrValidation)
	}

	if err := notifier.ContactCaptured(ctx, in.ContactKey, in.Analysis.Contact); err != nil {
		return GraphOutput{}, err
	}

	in.Profile.Suspend(in.Now)
	if err := store.Save(ctx, in.Profile); err != nil {
		return GraphOutput{}, err
	}

	return GraphOutput{}, nil
}
