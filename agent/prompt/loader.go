package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/analyzer.txt
	analyzerRaw string

	//go:embed template/commander_step1.txt
	commanderStep1Raw string

	//go:embed template/commander_step2.txt
	commanderStep2Raw string

	//go:embed template/writer.txt
	writerRaw string
)

// PromptSet holds loaded prompt content. Slots use pyfmt-style placeholders:
// analyzer takes {summary} and {messages}, the commanders take {summary} and
// {messages}, the writer takes {rules}, {messages}, {language} and {city}.
type PromptSet struct {
	Analyzer       string
	CommanderStep1 string
	CommanderStep2 string
	Writer         string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Analyzer:       strings.TrimSpace(analyzerRaw),
		CommanderStep1: strings.TrimSpace(commanderStep1Raw),
		CommanderStep2: strings.TrimSpace(commanderStep2Raw),
		Writer:         strings.TrimSpace(writerRaw),
	}
}
