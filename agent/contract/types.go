package contract

import "strings"

// Phase is the conversation-progress stage. It gates which tactic vocabulary
// applies and which commander prompt is used. Progression is one-way: once a
// contact reaches step2 the analyzer keeps it there.
type Phase string

const (
	PhaseStep1 Phase = "step1"
	PhaseStep2 Phase = "step2"
)

// ParsePhase maps a model-produced phase string onto the enum. Anything
// outside the two known values is a schema violation, not a default.
func ParsePhase(raw string) (Phase, bool) {
	switch Phase(strings.TrimSpace(raw)) {
	case PhaseStep1:
		return PhaseStep1, true
	case PhaseStep2:
		return PhaseStep2, true
	default:
		return "", false
	}
}

// Role names one of the model-backed pipeline roles. Used to key per-role
// model and temperature configuration.
type Role string

const (
	RoleAnalyzer  Role = "analyzer"
	RoleCommander Role = "commander"
	RoleWriter    Role = "writer"
)

// Tactic tags. Each doubles as a generation-model choice and as the lookup
// key into the rulebook.
const (
	TagBond               = "Bond"
	TagAttractiveGuyImage = "Attractive guy image"
	TagStorytelling       = "Storytelling"
	TagSuggestingMeeting  = "Suggesting meeting"
	TagComfort            = "Comfort"
	TagMeetingDetails     = "Providing meeting details"
	TagAskForContact      = "Ask for contact"
)

// TagsForPhase returns the closed tactic vocabulary of a phase.
func TagsForPhase(phase Phase) []string {
	if phase == PhaseStep1 {
		return []string{TagBond, TagAttractiveGuyImage, TagStorytelling}
	}
	return []string{TagSuggestingMeeting, TagComfort, TagMeetingDetails, TagAskForContact}
}

// NeedsSummaryRefresh reports whether a tactic selection requires folding the
// generated reply back into the summary. Only image and storytelling usages
// carry counted progress, so only they trigger the second analyzer pass.
func NeedsSummaryRefresh(tags []string) bool {
	for _, tag := range tags {
		if tag == TagAttractiveGuyImage || tag == TagStorytelling {
			return true
		}
	}
	return false
}

// StageAnalysis is the analyzer's read of the conversation: the rewritten
// summary, the phase the next reply should be planned for, and any literal
// contact detail found in the latest messages (empty when none).
type StageAnalysis struct {
	Summary   string `json:"summary"`
	NextPhase Phase  `json:"next_phase"`
	Contact   string `json:"contact,omitempty"`
}

// ContactDetected reports whether the analyzer captured a contact detail,
// which short-circuits the cycle into notification and suspension.
func (a StageAnalysis) ContactDetected() bool {
	return strings.TrimSpace(a.Contact) != ""
}

// TacticSelection is the commander's pick of tactic tags, in application
// order, with a short justification.
type TacticSelection struct {
	Reasoning string   `json:"reasoning"`
	Tags      []string `json:"tags"`
}

// MessageDraft is the writer's reply: consecutive outbound message segments
// plus the reasoning that steered them. Reasoning is never delivered.
type MessageDraft struct {
	Reasoning string   `json:"reasoning"`
	Segments  []string `json:"segments"`
}

type AnalyzeRequest struct {
	Summary  string `json:"summary"`
	Messages string `json:"messages"`
}

type TacticRequest struct {
	Summary  string `json:"summary"`
	Messages string `json:"messages"`
}

type WriteRequest struct {
	Guidance string `json:"guidance"`
	Messages string `json:"messages"`
	Language string `json:"language"`
	City     string `json:"city"`
}
