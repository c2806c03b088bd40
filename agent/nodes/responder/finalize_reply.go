package respondernode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Draft.Segments) == 0 {
		return GraphOutput{}, fmt.Errorf("%w: writer produced no segments", contractx.ErrValidation)
	}

	return GraphOutput{Messages: in.Draft.Segments}, nil
}
