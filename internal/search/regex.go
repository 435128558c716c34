package search

import (
	"regexp"
	"sync"

	"github.com/deptdesk/deptdesk/internal/notification"
)

// RegexProvider provides regex-based search.
// Matches if any configured field matches the regex pattern.
type RegexProvider struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexProvider creates a new regex search provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

// Match returns true if any configured field matches the regex pattern.
// An invalid pattern matches nothing.
func (p *RegexProvider) Match(n notification.Notification, query string) bool {
	if query == "" {
		return true
	}

	re, err := p.getRegex(query)
	if err != nil {
		return false
	}

	for _, field := range p.opts.Fields {
		value := fieldValue(n, field)
		if value == "" {
			continue
		}
		if re.MatchString(value) {
			return true
		}
	}

	return false
}

// getRegex returns a compiled regex for the given pattern, using cache.
func (p *RegexProvider) getRegex(pattern string) (*regexp.Regexp, error) {
	p.cacheMu.RLock()
	re, ok := p.cache[pattern]
	p.cacheMu.RUnlock()

	if ok {
		return re, nil
	}

	compilePattern := pattern
	if p.opts.CaseInsensitive {
		compilePattern = "(?i)" + pattern
	}
	compiled, err := regexp.Compile(compilePattern)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[pattern] = compiled
	p.cacheMu.Unlock()

	return compiled, nil
}

// Name returns the provider name.
func (p *RegexProvider) Name() string {
	return "regex"
}
