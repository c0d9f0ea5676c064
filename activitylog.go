// Package activitylog is the high-level façade over the activity log. It
// wires a file-backed logstore.Store, a logquery.Searcher and the activity
// tools together and, when a model is configured, an agent.Dispatcher that
// routes free-form input to them.
//
// Typical use:
//
//	al := activitylog.New(func(o *activitylog.Options) {
//		o.Model = openai.NewGroqModel(os.Getenv("GROQ_API_KEY"))
//	})
//	fmt.Println(al.LogRoute("I took marthalli route today"))
//	fmt.Println(al.SearchLogs("search route: last 1"))
//	fmt.Println(al.Ask(ctx, "I learned about reinforcement learning"))
//
// All operations report failures as text and never panic.
package activitylog

import (
	"context"

	"github.com/hupe1980/activitylog/agent"
	"github.com/hupe1980/activitylog/logging"
	"github.com/hupe1980/activitylog/logquery"
	"github.com/hupe1980/activitylog/logstore"
	"github.com/hupe1980/activitylog/model"
	"github.com/hupe1980/activitylog/tool"
)

// NoModelMessage is returned by Ask when no model is configured.
const NoModelMessage = "Error: no model configured"

// Options configures the ActivityLog instance.
type Options struct {
	// Store option functions, applied after the façade defaults.
	Store []func(o *logstore.Options)
	// Model drives Ask. Nil disables dispatching.
	Model model.Model
	// Dispatcher option functions, applied after the façade defaults.
	Dispatcher []func(o *agent.DispatcherOptions)
	// MaxConcurrentRequests limits the number of Ask calls talking to the
	// model at the same time. Zero means unlimited.
	MaxConcurrentRequests int
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ActivityLog aggregates the store, searcher, tools and optional dispatcher.
type ActivityLog struct {
	opts       Options
	store      *logstore.Store
	searcher   *logquery.Searcher
	tools      []tool.Tool
	dispatcher *agent.Dispatcher
	slots      chan struct{}
}

// New creates an ActivityLog. The store defaults to logstore.DefaultDir
// relative to the working directory.
func New(optFns ...func(o *Options)) *ActivityLog {
	opts := Options{
		MaxConcurrentRequests: 10,
		Logger:                logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	storeFns := append([]func(o *logstore.Options){func(o *logstore.Options) {
		o.Logger = opts.Logger
	}}, opts.Store...)
	store := logstore.New(storeFns...)

	searcher := logquery.NewSearcher(store, func(o *logquery.SearcherOptions) {
		o.Logger = opts.Logger
	})

	al := &ActivityLog{
		opts:     opts,
		store:    store,
		searcher: searcher,
		tools:    tool.NewActivityTools(store, searcher),
	}

	if opts.Model != nil {
		dispatcherFns := append([]func(o *agent.DispatcherOptions){func(o *agent.DispatcherOptions) {
			o.Logger = opts.Logger
		}}, opts.Dispatcher...)
		al.dispatcher = agent.NewDispatcher(opts.Model, al.tools, dispatcherFns...)
		if opts.MaxConcurrentRequests > 0 {
			al.slots = make(chan struct{}, opts.MaxConcurrentRequests)
		}
	}

	opts.Logger.Debug("activitylog.new",
		"dir", store.Dir(),
		"categories", logstore.JoinCategories(store.Categories()),
		"dispatcher", al.dispatcher != nil,
	)

	return al
}

// LogRoute appends a route entry and returns the confirmation or error text.
func (a *ActivityLog) LogRoute(text string) string {
	return a.store.Log(logstore.CategoryRoute, text)
}

// LogTask appends a task entry and returns the confirmation or error text.
func (a *ActivityLog) LogTask(text string) string {
	return a.store.Log(logstore.CategoryTask, text)
}

// LogLearning appends a learning entry and returns the confirmation or error text.
func (a *ActivityLog) LogLearning(text string) string {
	return a.store.Log(logstore.CategoryLearning, text)
}

// SearchLogs answers a "search <type>: last <N>" or "search <type>: all" command.
func (a *ActivityLog) SearchLogs(command string) string {
	return a.searcher.Search(command)
}

// Store exposes the underlying store.
func (a *ActivityLog) Store() *logstore.Store { return a.store }

// Tools returns the activity tools offered to the model.
func (a *ActivityLog) Tools() []tool.Tool {
	out := make([]tool.Tool, len(a.tools))
	copy(out, a.tools)
	return out
}

// Dispatcher returns the dispatcher, or nil when no model is configured.
func (a *ActivityLog) Dispatcher() *agent.Dispatcher { return a.dispatcher }

// Ask routes free-form input through the model and returns its answer. Model
// and transport failures come back as "Error: ..." text. Ask blocks while
// MaxConcurrentRequests calls are in flight.
func (a *ActivityLog) Ask(ctx context.Context, input string) string {
	if a.dispatcher == nil {
		return NoModelMessage
	}

	if a.slots != nil {
		select {
		case a.slots <- struct{}{}:
			defer func() { <-a.slots }()
		case <-ctx.Done():
			return "Error: " + ctx.Err().Error()
		}
	}

	answer, err := a.dispatcher.Dispatch(ctx, input)
	if err != nil {
		a.opts.Logger.Error("activitylog.ask_failed", "error", err.Error())
		return "Error: " + err.Error()
	}

	return answer
}
