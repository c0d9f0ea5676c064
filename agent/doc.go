// Package agent contains the Dispatcher: a small tool-calling loop that hands
// free-form user input to a language model together with the activity tools,
// executes the function calls the model asks for, feeds the results back and
// returns the model's final answer.
//
// Execution model:
//   - Each Run gets a fresh conversation (system instruction + user input)
//   - Function calls of one model turn run sequentially, in order
//   - Tool failures and panics are reported back to the model, not to the caller
//   - The loop ends on a text-only turn or after MaxSteps model turns
//
// The model itself is opaque: anything implementing model.Model works,
// including model.ScriptedModel for deterministic runs.
package agent
