package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/activitylog/core"
	"github.com/hupe1980/activitylog/logging"
	"github.com/hupe1980/activitylog/model"
	"github.com/hupe1980/activitylog/tool"
)

var (
	// ErrMaxStepsExceeded is returned when the model keeps calling tools past MaxSteps.
	ErrMaxStepsExceeded = errors.New("dispatcher: max steps exceeded")
	// ErrEmptyInput is returned for blank user input.
	ErrEmptyInput = errors.New("dispatcher: empty input")
)

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Instruction Instruction
	// MaxSteps bounds the number of model turns per run.
	MaxSteps int
	// ToolTimeout bounds a single tool call. Zero disables the limit.
	ToolTimeout time.Duration
	// SearchTool names the search tool in the instruction.
	SearchTool string
	Logger     logging.Logger
}

// CallRecord traces one executed function call.
type CallRecord struct {
	ID        string
	Name      string
	Arguments string
	Output    any
	Err       error
	Duration  time.Duration
}

// Result is the outcome of a Run.
type Result struct {
	RunID  string
	Answer string
	Steps  int
	Calls  []CallRecord
	Usage  model.TokenUsage
}

// Dispatcher routes free-form input to tools through a language model.
type Dispatcher struct {
	llm      model.Model
	registry *tool.Registry
	opts     DispatcherOptions
}

// NewDispatcher creates a Dispatcher over the given model and tools.
func NewDispatcher(llm model.Model, tools []tool.Tool, optFns ...func(o *DispatcherOptions)) *Dispatcher {
	opts := DispatcherOptions{
		Instruction: NewInstructionFromText(DefaultInstruction),
		MaxSteps:    8,
		ToolTimeout: 15 * time.Second,
		SearchTool:  tool.SearchToolName,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Dispatcher{
		llm:      llm,
		registry: tool.NewRegistry(tools...),
		opts:     opts,
	}
}

// Tools returns the registered tools in order.
func (d *Dispatcher) Tools() []tool.Tool { return d.registry.Tools() }

// Dispatch runs the input and returns the model's final answer.
func (d *Dispatcher) Dispatch(ctx context.Context, input string) (string, error) {
	res, err := d.Run(ctx, input)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// Run executes one request/tool loop and returns the full trace.
func (d *Dispatcher) Run(ctx context.Context, input string) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	logger := logging.With(d.opts.Logger, "run_id", res.RunID, "model", d.llm.Info().Name)

	if strings.TrimSpace(input) == "" {
		return res, ErrEmptyInput
	}

	system, err := d.opts.Instruction.Resolve(d.promptData())
	if err != nil {
		return res, err
	}

	req := model.Request{
		Contents: []core.Content{
			core.NewTextContent(core.RoleSystem, system),
			core.NewTextContent(core.RoleUser, input),
		},
		Tools: d.toolDefinitions(),
	}

	start := time.Now()
	logger.Info("agent.dispatch.start", "tools", len(req.Tools))

	limiter := core.NewCallLimiter(d.opts.MaxSteps)

	for {
		if err := limiter.Acquire(); err != nil {
			logger.Warn("agent.dispatch.max_steps", "steps", res.Steps)
			return res, fmt.Errorf("%w: %v", ErrMaxStepsExceeded, err)
		}
		res.Steps = limiter.Count()

		respCh, errCh := d.llm.Generate(ctx, req)
		resp, err := model.Collect(ctx, respCh, errCh)
		if err != nil {
			logger.Error("agent.dispatch.model_failed", "step", res.Steps, "error", err.Error())
			return res, fmt.Errorf("dispatcher step %d: %w", res.Steps, err)
		}
		addUsage(&res.Usage, resp.Usage)

		req.Contents = append(req.Contents, resp.Content)

		calls := resp.Content.FunctionCalls()
		logger.Debug("agent.dispatch.step", "step", res.Steps, "function_calls", len(calls), "finish_reason", resp.FinishReason)

		if len(calls) == 0 {
			res.Answer = finalAnswer(resp.Content.Text())
			logger.Info("agent.dispatch.complete", "steps", res.Steps, "calls", len(res.Calls), "duration_ms", time.Since(start).Milliseconds())
			return res, nil
		}

		for _, fc := range calls {
			rec := d.execute(ctx, res.RunID, fc, logger)
			res.Calls = append(res.Calls, rec)
			req.Contents = append(req.Contents, core.NewFunctionResponseContent(fc, rec.Output, rec.Err))
		}
	}
}

// execute runs one function call. Lookup, decoding, tool, panic and timeout
// failures are captured in the record. A tool that outlives ToolTimeout is
// abandoned and its late result discarded.
func (d *Dispatcher) execute(ctx context.Context, runID string, fc core.FunctionCall, logger logging.Logger) CallRecord {
	rec := CallRecord{ID: fc.ID, Name: fc.Name, Arguments: fc.Arguments}

	if d.opts.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.ToolTimeout)
		defer cancel()
	}

	toolCtx := core.NewToolContext(ctx, runID, fc.ID, logger)

	type outcome struct {
		output any
		err    error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		defer func() { // panic safety
			if r := recover(); r != nil {
				logger.Error("agent.function.panic", "function", fc.Name, "recover", r)
				done <- outcome{err: panicError(fc.Name, r)}
			}
		}()
		output, err := d.executeTool(toolCtx, fc.Name, fc.Arguments)
		done <- outcome{output: output, err: err}
	}()

	select {
	case o := <-done:
		rec.Output, rec.Err = o.output, o.err
	case <-ctx.Done():
		rec.Err = timeoutError(fc.Name, ctx.Err())
		logger.Warn("agent.function.abandoned", "function", fc.Name, "error", ctx.Err().Error())
	}
	rec.Duration = time.Since(start)

	logger.Info(
		"agent.function.executed",
		"function", fc.Name,
		"function_call_id", fc.ID,
		"duration_ms", rec.Duration.Milliseconds(),
		"error", rec.Err != nil,
	)

	return rec
}

// executeTool centralizes tool lookup, argument decoding and execution.
func (d *Dispatcher) executeTool(toolCtx *core.ToolContext, name, args string) (any, error) {
	impl, ok := d.registry.Get(name)
	if !ok {
		return nil, tool.NewToolError(name, fmt.Sprintf("tool %s not found", name), tool.CodeNotFound)
	}

	argMap := map[string]any{}
	if strings.TrimSpace(args) != "" {
		if err := json.Unmarshal([]byte(args), &argMap); err != nil {
			return nil, tool.NewToolError(name, fmt.Sprintf("failed to unmarshal args: %v", err), tool.CodeValidation)
		}
	}

	return impl.Call(toolCtx, argMap)
}

func (d *Dispatcher) promptData() PromptData {
	tools := d.registry.Tools()
	data := PromptData{
		Tools:      make([]ToolInfo, len(tools)),
		ToolNames:  d.registry.Names(),
		SearchTool: d.opts.SearchTool,
	}
	for i, t := range tools {
		data.Tools[i] = ToolInfo{Name: t.Name(), Description: t.Description()}
	}
	return data
}

func (d *Dispatcher) toolDefinitions() []model.ToolDefinition {
	tools := d.registry.Tools()
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

func addUsage(total *model.TokenUsage, u *model.TokenUsage) {
	if u == nil {
		return
	}
	total.PromptTokens += u.PromptTokens
	total.CompletionTokens += u.CompletionTokens
	total.TotalTokens += u.TotalTokens
}

// finalAnswer trims a ReAct style "Final Answer:" label some models still emit.
func finalAnswer(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "Final Answer:"); i >= 0 {
		return strings.TrimSpace(text[i+len("Final Answer:"):])
	}
	return text
}

// timeoutError reports a call cut off by ToolTimeout or by cancellation of the run.
func timeoutError(name string, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return tool.NewToolError(name, "tool timed out", tool.CodeTimeout)
	}
	return tool.NewToolError(name, fmt.Sprintf("tool call canceled: %v", cause), tool.CodeTimeout)
}

// panicError converts a recovered panic value to a tool error, keeping the stack.
func panicError(name string, r any) error {
	return &tool.ToolError{
		Tool:    name,
		Message: fmt.Sprintf("panic: %v", r),
		Code:    tool.CodePanic,
		Details: string(debug.Stack()),
	}
}
