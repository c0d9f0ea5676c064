package logstore

import "strings"

// Category is a kind of activity backed by its own log file.
type Category string

const (
	// CategoryRoute records travel routes.
	CategoryRoute Category = "route"
	// CategoryTask records completed tasks.
	CategoryTask Category = "task"
	// CategoryLearning records learning activities.
	CategoryLearning Category = "learning"
)

// DefaultCategories is the category set used when none is configured.
var DefaultCategories = []Category{CategoryRoute, CategoryTask, CategoryLearning}

// String returns the category name.
func (c Category) String() string { return string(c) }

// normalizeCategory lower-cases and trims a category token.
func normalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// JoinCategories renders categories as a comma separated list in order.
func JoinCategories(categories []Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
