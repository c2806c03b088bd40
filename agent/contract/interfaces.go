package contract

import "context"

type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (StageAnalysis, error)
}

type Commander interface {
	SelectTactics(ctx context.Context, req TacticRequest) (TacticSelection, error)
}

type Writer interface {
	Write(ctx context.Context, req WriteRequest) (MessageDraft, error)
}

// Registry hands out the model-backed roles. Commander is phase-keyed: the
// two phases use different prompts and different output vocabularies.
type Registry interface {
	Analyzer() Analyzer
	Commander(phase Phase) Commander
	Writer() Writer
}

// RuleSource maps a tactic tag to its human-authored guidance text. Lookups
// are side-effect-free; a missing tag is an error, never empty guidance.
type RuleSource interface {
	Rule(ctx context.Context, tag string) (string, error)
}

// Notifier is told when a contact detail has been captured and the
// conversation is being suspended.
type Notifier interface {
	ContactCaptured(ctx context.Context, contactKey string, contact string) error
}
