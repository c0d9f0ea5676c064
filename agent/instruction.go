package agent

import (
	"fmt"

	"github.com/hupe1980/activitylog/internal/util"
)

// ToolInfo is the view of a tool available to instruction templates.
type ToolInfo struct {
	Name        string
	Description string
}

// PromptData is the data an instruction is resolved against.
type PromptData struct {
	Tools      []ToolInfo
	ToolNames  []string
	SearchTool string
}

// templateData exposes PromptData under snake_case keys for templates.
func (d PromptData) templateData() map[string]any {
	return map[string]any{
		"tools":       d.Tools,
		"tool_names":  d.ToolNames,
		"search_tool": d.SearchTool,
	}
}

// Provider supplies dynamic instruction text at runtime.
type Provider interface {
	Instruction(PromptData) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(PromptData) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(d PromptData) (string, error) { return f(d) }

// Instruction represents either a static template or a dynamic provider.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a text/template string
// rendered with the keys tools, tool_names and search_tool.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(PromptData) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a template string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, rendering the template or invoking
// the provider.
func (i Instruction) Resolve(d PromptData) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(d)
	}
	text, err := util.RenderTemplate(i.text, d.templateData())
	if err != nil {
		return "", fmt.Errorf("render instruction: %w", err)
	}
	return text, nil
}

// DefaultInstruction is the system prompt used when none is configured.
const DefaultInstruction = `You are a helpful assistant who uses tools to log activities and search logs.
You have access to these tools:
{{range .tools}}- {{.Name}}: {{.Description}}
{{end}}
When the user describes something they did, call the matching update tool with their words unchanged.
When the user asks about past activities, call {{.search_tool}} with a command of the form 'search <type>: last <N>' or 'search <type>: all'.
Call exactly one tool per request, then reply to the user with the tool's result.`
