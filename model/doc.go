// Package model defines the provider-neutral abstraction the dispatcher uses
// to talk to a language model.
//
//   - Model: Generate a response for a Request (contents plus tool definitions)
//   - ToolDefinition / FunctionDefinition: tools exposed for function calling
//   - ScriptedModel: a deterministic Model replaying canned responses
//
// Vendor adapters live in sub-packages (model/openai, model/anthropic) so the
// rest of the module never imports an SDK directly.
package model
