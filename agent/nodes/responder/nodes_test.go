package respondernode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

type fakeStore struct {
	profiles map[string]*statex.Profile
	loadErr  error
	saveErr  error
	saves    int
}

func (f *fakeStore) Load(ctx context.Context, contactKey string) (*statex.Profile, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	p, ok := f.profiles[contactKey]
	if !ok {
		return nil, statex.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) Save(ctx context.Context, p *statex.Profile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.profiles == nil {
		f.profiles = map[string]*statex.Profile{}
	}
	f.profiles[p.ContactKey] = p
	f.saves++
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, contactKey string) error {
	delete(f.profiles, contactKey)
	return nil
}

type fakeAnalyzer struct {
	out      contractx.StageAnalysis
	err      error
	requests []contractx.AnalyzeRequest
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req contractx.AnalyzeRequest) (contractx.StageAnalysis, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return contractx.StageAnalysis{}, f.err
	}
	return f.out, nil
}

type fakeRules struct {
	rules map[string]string
}

func (f *fakeRules) Rule(ctx context.Context, tag string) (string, error) {
	guidance, ok := f.rules[tag]
	if !ok {
		return "", errors.New("rule guidance not found")
	}
	return guidance, nil
}

type fakeNotifier struct {
	err   error
	calls int
	key   string
	value string
}

func (f *fakeNotifier) ContactCaptured(ctx context.Context, contactKey, contact string) error {
	f.calls++
	f.key = contactKey
	f.value = contact
	return f.err
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	state, err := ValidateRequest(GraphInput{ContactKey: " bea_24 ", Messages: " Girl: hey there "}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if state.ContactKey != "bea_24" {
		t.Fatalf("contact key not trimmed: %q", state.ContactKey)
	}
	if state.Messages != "Girl: hey there" {
		t.Fatalf("messages not trimmed: %q", state.Messages)
	}
	if !state.Now.Equal(fixedNow()) {
		t.Fatalf("unexpected now: %v", state.Now)
	}

	if _, err := ValidateRequest(GraphInput{ContactKey: "  ", Messages: "hi"}, fixedNow); !errors.Is(err, ErrInvalidContactKey) {
		t.Fatalf("expected ErrInvalidContactKey, got %v", err)
	}
	if _, err := ValidateRequest(GraphInput{ContactKey: "bea_24", Messages: "  "}, fixedNow); !errors.Is(err, ErrInvalidMessages) {
		t.Fatalf("expected ErrInvalidMessages, got %v", err)
	}
}

func TestLoadProfileCreatesWhenMissing(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	state := &GraphState{ContactKey: "bea_24", Messages: "Girl: hi", Now: fixedNow()}

	out, err := LoadProfile(context.Background(), state, store)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if out.Profile == nil || out.Profile.ContactKey != "bea_24" {
		t.Fatalf("unexpected profile: %#v", out.Profile)
	}
	if out.Profile.Summary != "" {
		t.Fatalf("fresh profile must start with a blank summary, got %q", out.Profile.Summary)
	}
}

func TestLoadProfileSurfacesStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("redis down")
	store := &fakeStore{loadErr: storeErr}
	state := &GraphState{ContactKey: "bea_24", Now: fixedNow()}

	if _, err := LoadProfile(context.Background(), state, store); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestResolveGuidanceJoinOrder(t *testing.T) {
	t.Parallel()

	rules := &fakeRules{rules: map[string]string{
		contractx.TagBond:         "Ask about her day.",
		contractx.TagStorytelling: "Tell the festival story.",
	}}
	state := &GraphState{
		Tactics: contractx.TacticSelection{Tags: []string{contractx.TagBond, contractx.TagStorytelling}},
	}

	out, err := ResolveGuidance(context.Background(), state, rules)
	if err != nil {
		t.Fatalf("ResolveGuidance() error = %v", err)
	}
	want := "Ask about her day.\n###\n- Tell the festival story."
	if out.Guidance != want {
		t.Fatalf("guidance = %q, want %q", out.Guidance, want)
	}

	// Same tags, same block.
	again := &GraphState{Tactics: state.Tactics}
	if _, err := ResolveGuidance(context.Background(), again, rules); err != nil {
		t.Fatalf("ResolveGuidance() second error = %v", err)
	}
	if again.Guidance != out.Guidance {
		t.Fatalf("resolution is not stable: %q vs %q", again.Guidance, out.Guidance)
	}
}

func TestResolveGuidanceNamesMissingTag(t *testing.T) {
	t.Parallel()

	rules := &fakeRules{rules: map[string]string{}}
	state := &GraphState{Tactics: contractx.TacticSelection{Tags: []string{"Mystery"}}}

	_, err := ResolveGuidance(context.Background(), state, rules)
	if err == nil {
		t.Fatal("expected error for unknown tag")
	}
	if !strings.Contains(err.Error(), "Mystery") {
		t.Fatalf("error %q should name the tag", err)
	}
}

func TestSuspendOnContact(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	notifier := &fakeNotifier{}
	state := &GraphState{
		ContactKey: "bea_24",
		Now:        fixedNow(),
		Profile:    statex.NewProfile("bea_24", fixedNow()),
		Analysis: contractx.StageAnalysis{
			Summary:   "We are on step 2.",
			NextPhase: contractx.PhaseStep2,
			Contact:   "Instagram jane_doe",
		},
	}

	out, err := SuspendOnContact(context.Background(), state, notifier, store)
	if err != nil {
		t.Fatalf("SuspendOnContact() error = %v", err)
	}
	if len(out.Messages) != 0 {
		t.Fatalf("contact exit must return no messages, got %#v", out.Messages)
	}
	if notifier.calls != 1 || notifier.key != "bea_24" || notifier.value != "Instagram jane_doe" {
		t.Fatalf("unexpected notification: %#v", notifier)
	}
	saved := store.profiles["bea_24"]
	if saved == nil || !saved.Suspended {
		t.Fatalf("profile not suspended in store: %#v", saved)
	}
	if saved.Summary != "" {
		t.Fatalf("contact exit must not rewrite the summary, got %q", saved.Summary)
	}
}

func TestSuspendOnContactNotifierFailureSkipsSave(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("hook down")}
	state := &GraphState{
		ContactKey: "bea_24",
		Now:        fixedNow(),
		Profile:    statex.NewProfile("bea_24", fixedNow()),
		Analysis:   contractx.StageAnalysis{Contact: "Phone 123456789"},
	}

	if _, err := SuspendOnContact(context.Background(), state, notifier, store); err == nil {
		t.Fatal("expected notifier failure to surface")
	}
	if store.saves != 0 {
		t.Fatal("profile must not be saved when notification fails")
	}
	if state.Profile.Suspended {
		t.Fatal("profile must not be marked suspended when notification fails")
	}
}

func TestSuspendOnContactRejectsEmptyContact(t *testing.T) {
	t.Parallel()

	state := &GraphState{
		ContactKey: "bea_24",
		Now:        fixedNow(),
		Profile:    statex.NewProfile("bea_24", fixedNow()),
	}

	if _, err := SuspendOnContact(context.Background(), state, &fakeNotifier{}, &fakeStore{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRefreshSummaryReplaysDraftAsConversator(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{
		out: contractx.StageAnalysis{
			Summary:   "We are on step 1.\nFun stories (1/1): festival story told.",
			NextPhase: contractx.PhaseStep1,
		},
	}
	state := &GraphState{
		Messages: "Girl: tell me something fun",
		Analysis: contractx.StageAnalysis{
			Summary:   "We are on step 1.",
			NextPhase: contractx.PhaseStep1,
		},
		Draft: contractx.MessageDraft{Segments: []string{"So last summer...", "we ended up on the festival roof."}},
	}

	out, err := RefreshSummary(context.Background(), state, analyzer)
	if err != nil {
		t.Fatalf("RefreshSummary() error = %v", err)
	}

	if len(analyzer.requests) != 1 {
		t.Fatalf("expected one analyzer call, got %d", len(analyzer.requests))
	}
	req := analyzer.requests[0]
	if req.Summary != "We are on step 1." {
		t.Fatalf("refresh must start from the fresh summary, got %q", req.Summary)
	}
	want := "Conversator: So last summer...\nwe ended up on the festival roof."
	if req.Messages != want {
		t.Fatalf("replayed messages = %q, want %q", req.Messages, want)
	}
	if out.Analysis.Summary != analyzer.out.Summary {
		t.Fatalf("summary not refreshed: %q", out.Analysis.Summary)
	}
	if out.Analysis.NextPhase != contractx.PhaseStep1 {
		t.Fatalf("phase must survive the refresh, got %s", out.Analysis.NextPhase)
	}
}

func TestSaveProfileRecordsSummary(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	state := &GraphState{
		ContactKey: "bea_24",
		Now:        fixedNow(),
		Profile:    statex.NewProfile("bea_24", fixedNow()),
		Analysis:   contractx.StageAnalysis{Summary: "We are on step 1.\nBond (1/3): she paints."},
	}

	if _, err := SaveProfile(context.Background(), state, store); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	saved := store.profiles["bea_24"]
	if saved == nil || saved.Summary != state.Analysis.Summary {
		t.Fatalf("summary not persisted: %#v", saved)
	}
}

func TestFinalizeReply(t *testing.T) {
	t.Parallel()

	out, err := FinalizeReply(&GraphState{Draft: contractx.MessageDraft{Segments: []string{"Hey!", "How was your day?"}}})
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}
	if len(out.Messages) != 2 || out.Messages[0] != "Hey!" {
		t.Fatalf("unexpected output: %#v", out.Messages)
	}

	if _, err := FinalizeReply(&GraphState{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty draft, got %v", err)
	}
}
