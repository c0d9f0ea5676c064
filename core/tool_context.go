package core

import (
	"context"
	"fmt"

	"github.com/hupe1980/activitylog/logging"
)

// ToolContext is the execution scope handed to a single tool call. It carries
// the cancellation context, the run and call identifiers used to correlate
// logs, and the logger.
type ToolContext struct {
	ctx            context.Context
	runID          string
	functionCallID string
	logger         logging.Logger
}

// NewToolContext constructs a tool context for one function call of a run.
func NewToolContext(ctx context.Context, runID, functionCallID string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:            ctx,
		runID:          runID,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// RunID returns the dispatcher run the call belongs to.
func (tc *ToolContext) RunID() string { return tc.runID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// Validate performs a structural sanity check of the context.
func (tc *ToolContext) Validate() error {
	if tc.functionCallID == "" {
		return fmt.Errorf("invalid ToolContext: missing function call id")
	}
	return tc.ctx.Err()
}
