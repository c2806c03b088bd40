package respondernode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
)

var (
	ErrInvalidMessages   = errors.New("messages are empty")
	ErrInvalidContactKey = errors.New("contact key is empty")
)

type GraphInput struct {
	ContactKey string
	Messages   string
}

type GraphOutput struct {
	Messages []string
}

type GraphState struct {
	ContactKey string
	Messages   string
	Now        time.Time

	Profile  *statex.Profile
	Analysis contractx.StageAnalysis
	Tactics  contractx.TacticSelection
	Guidance string
	Draft    contractx.MessageDraft
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	contactKey := strings.TrimSpace(in.ContactKey)
	if contactKey == "" {
		return nil, ErrInvalidContactKey
	}

	messages := strings.TrimSpace(in.Messages)
	if messages == "" {
		return nil, ErrInvalidMessages
	}

	return &GraphState{
		ContactKey: contactKey,
		Messages:   messages,
		Now:        nowFn().UTC(),
	}, nil
}
