// Package core provides the foundational types shared by the dispatcher, the
// tools and the model adapters:
//
//   - Content / Part: role based conversation content (text, function calls,
//     function responses)
//   - ToolContext: the scoped execution context handed to a tool call
//
// The package keeps implementation concerns (model vendors, persistence,
// dispatch loops) out of scope so each of them can depend on it without cycles.
package core
