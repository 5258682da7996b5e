package assets

// StyleList is the host's ordered list of stylesheet references. Entries
// later in the list override earlier ones in the cascade.
//
// Front insertion is explicit about ordering: Prepend(a, b) on [x] yields
// [a, b, x], not [b, a, x] as two successive single-item front inserts would.
type StyleList struct {
	items []string
}

// NewStyleList creates a list holding the given references in order.
func NewStyleList(refs ...string) *StyleList {
	items := make([]string, len(refs))
	copy(items, refs)
	return &StyleList{items: items}
}

// Prepend inserts refs ahead of every existing entry, keeping their order.
func (l *StyleList) Prepend(refs ...string) {
	if len(refs) == 0 {
		return
	}
	items := make([]string, 0, len(refs)+len(l.items))
	items = append(items, refs...)
	items = append(items, l.items...)
	l.items = items
}

// Append adds refs after every existing entry.
func (l *StyleList) Append(refs ...string) {
	l.items = append(l.items, refs...)
}

// Items returns a copy of the references in load order.
func (l *StyleList) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of references.
func (l *StyleList) Len() int {
	return len(l.items)
}
