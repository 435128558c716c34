// Package search provides a unified search abstraction for filtering
// notifications. It supports multiple strategies (substring, regex)
// through a common Provider interface so the CLI and the inbox share
// one matching implementation.
package search

import (
	"github.com/deptdesk/deptdesk/internal/notification"
)

// Provider defines the interface for search providers.
type Provider interface {
	// Match returns true if the notification matches the search query.
	Match(n notification.Notification, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case sensitivity
	Fields          []string // Fields to search in (default: all fields)
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{"message", "title", "category"},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
// Valid fields: "message", "title", "category", "link".
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValue extracts the named field from a notification.
func fieldValue(n notification.Notification, field string) string {
	switch field {
	case "message":
		return n.Message
	case "title":
		return n.Title
	case "category":
		return n.Category
	case "link":
		return n.Link
	default:
		return ""
	}
}

// Filter returns the notifications matching the query.
func Filter(items []notification.Notification, p Provider, query string) []notification.Notification {
	if p == nil || query == "" {
		return items
	}
	var out []notification.Notification
	for _, n := range items {
		if p.Match(n, query) {
			out = append(out, n)
		}
	}
	return out
}
