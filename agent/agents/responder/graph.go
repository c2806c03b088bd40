package responder

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	respondernode "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/nodes/responder"
)

func (r *Responder) compileRespondGraph(
	ctx context.Context,
) (compose.Runnable[respondernode.GraphInput, respondernode.GraphOutput], error) {
	graph := compose.NewGraph[respondernode.GraphInput, respondernode.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in respondernode.GraphInput) (*respondernode.GraphState, error) {
			return respondernode.ValidateRequest(in, r.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_profile",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.LoadProfile(ctx, in, r.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_profile: %w", err)
	}

	if err := graph.AddLambdaNode("analyze_incoming",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.AnalyzeIncoming(ctx, in, r.models.Analyzer())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node analyze_incoming: %w", err)
	}

	if err := graph.AddLambdaNode("suspend_on_contact",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (respondernode.GraphOutput, error) {
			return respondernode.SuspendOnContact(ctx, in, r.notifier, r.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node suspend_on_contact: %w", err)
	}

	if err := graph.AddLambdaNode("select_tactics",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.SelectTactics(ctx, in, r.models)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node select_tactics: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_guidance",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.ResolveGuidance(ctx, in, r.rules)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_guidance: %w", err)
	}

	if err := graph.AddLambdaNode("write_reply",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.WriteReply(ctx, in, r.models.Writer(), r.retry, r.language, r.city)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node write_reply: %w", err)
	}

	if err := graph.AddLambdaNode("refresh_summary",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.RefreshSummary(ctx, in, r.models.Analyzer())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node refresh_summary: %w", err)
	}

	if err := graph.AddLambdaNode("save_profile",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (*respondernode.GraphState, error) {
			return respondernode.SaveProfile(ctx, in, r.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_profile: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *respondernode.GraphState) (respondernode.GraphOutput, error) {
			return respondernode.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	// A captured contact ends the cycle without drafting a reply.
	contactBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *respondernode.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			if in.Analysis.ContactDetected() {
				return "suspend_on_contact", nil
			}
			return "select_tactics", nil
		},
		map[string]bool{
			"suspend_on_contact": true,
			"select_tactics":     true,
		},
	)
	if err := graph.AddBranch("analyze_incoming", contactBranch); err != nil {
		return nil, fmt.Errorf("add contact branch: %w", err)
	}

	// The second analysis pass only pays off when the reply may have consumed
	// a counted tactic.
	refreshBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *respondernode.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			if contractx.NeedsSummaryRefresh(in.Tactics.Tags) {
				return "refresh_summary", nil
			}
			return "save_profile", nil
		},
		map[string]bool{
			"refresh_summary": true,
			"save_profile":    true,
		},
	)
	if err := graph.AddBranch("write_reply", refreshBranch); err != nil {
		return nil, fmt.Errorf("add refresh branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_profile"},
		{"load_profile", "analyze_incoming"},
		{"suspend_on_contact", compose.END},
		{"select_tactics", "resolve_guidance"},
		{"resolve_guidance", "write_reply"},
		{"refresh_summary", "save_profile"},
		{"save_profile", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("responder.respond"))
	if err != nil {
		return nil, fmt.Errorf("compile responder graph: %w", err)
	}
	return runner, nil
}
