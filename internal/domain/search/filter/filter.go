// Package filter describes equality filters applied to a search.
package filter

// Option is one key/value equality filter. Repeated keys widen the match
// (any value may match), distinct keys narrow it (all keys must match).
type Option struct {
	key   string
	value string
}

// New creates a filter option.
func New(key, value string) Option {
	return Option{key: key, value: value}
}

// Key returns the dotted field path the filter applies to.
func (o Option) Key() string { return o.key }

// Value returns the value the field must equal.
func (o Option) Value() string { return o.value }
