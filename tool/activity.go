package tool

import (
	"fmt"

	"github.com/hupe1980/activitylog/core"
	"github.com/hupe1980/activitylog/logquery"
	"github.com/hupe1980/activitylog/logstore"
)

// SearchToolName is the name of the tool answering search commands.
const SearchToolName = "search_logs"

var categoryDescriptions = map[logstore.Category]string{
	logstore.CategoryRoute:    "Log route details (e.g., 'I took marthalli route today').",
	logstore.CategoryTask:     "Log completed tasks (e.g., 'I completed sales ppt creation').",
	logstore.CategoryLearning: "Log learning activities (e.g., 'I learned about AI agents').",
}

type logArgs struct {
	Text string `json:"text" description:"The activity exactly as the user described it." minLength:"1"`
}

type searchArgs struct {
	Query string `json:"query" description:"Search command: 'search <type>: last <N>' or 'search <type>: all'." minLength:"1"`
}

// LogToolName returns the name of the tool logging entries for a category.
func LogToolName(c logstore.Category) string {
	return fmt.Sprintf("update_%s_detail", c)
}

// NewLogTool returns a tool appending its "text" argument to the category
// file. The result is always a string: a confirmation or an error description.
func NewLogTool(store *logstore.Store, c logstore.Category) *FunctionTool {
	description, ok := categoryDescriptions[c]
	if !ok {
		description = fmt.Sprintf("Log %s activities.", c)
	}

	return NewFunctionToolFromStruct(LogToolName(c), description, logArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			text, _ := args["text"].(string)
			tc.Logger().Debug("tool.activity.log", "category", c.String(), "run_id", tc.RunID())
			return store.Log(c, text), nil
		})
}

// NewSearchTool returns the tool answering search commands with matching
// entries, a notice, or an error description.
func NewSearchTool(searcher *logquery.Searcher, store *logstore.Store) *FunctionTool {
	description := fmt.Sprintf(
		"Search activity logs (types: %s). Example: 'search route: last 5' or 'search task: all'.",
		logstore.JoinCategories(store.Categories()),
	)

	return NewFunctionToolFromStruct(SearchToolName, description, searchArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			tc.Logger().Debug("tool.activity.search", "query", query, "run_id", tc.RunID())
			return searcher.Search(query), nil
		})
}

// NewActivityTools returns one log tool per store category followed by the
// search tool.
func NewActivityTools(store *logstore.Store, searcher *logquery.Searcher) []Tool {
	categories := store.Categories()
	tools := make([]Tool, 0, len(categories)+1)
	for _, c := range categories {
		tools = append(tools, NewLogTool(store, c))
	}
	return append(tools, NewSearchTool(searcher, store))
}
