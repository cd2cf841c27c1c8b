// Package glossary maintains a cross-referencing index over glossary-item
// objects and decorates plain text with anchors pointing at them. It is
// pure text processing; rendering the anchors is the consumer's concern.
package glossary

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"doccore/pkg/model"
)

// ItemClass is the effective class of objects indexed as glossary items.
const ItemClass = "glossary-item"

// Item is one indexed glossary entry.
type Item struct {
	ID          model.ID
	Name        string
	Description string
}

// Index is a thread-safe glossary lookup keyed by object ID. The matcher
// is recompiled on every mutation so Highlight always reflects the
// current entries.
type Index struct {
	mu      sync.RWMutex
	items   map[model.ID]Item
	matcher *regexp.Regexp
	byName  map[string]Item
}

// NewIndex returns an empty glossary index.
func NewIndex() *Index {
	return &Index{items: make(map[model.ID]Item)}
}

// Put indexes the object when it is a glossary item, replacing any
// previous entry under its ID. It reports whether the object was indexed.
func (x *Index) Put(o *model.Object) bool {
	if !o.HasClass(ItemClass) {
		return false
	}
	name := strings.TrimSpace(o.Name())
	if name == "" {
		return false
	}
	var description string
	if p, ok := o.GetProperty(model.DescriptionPropertyKey); ok {
		description = p.Value()
	}
	x.mu.Lock()
	x.items[o.ID()] = Item{ID: o.ID(), Name: name, Description: description}
	x.recompile()
	x.mu.Unlock()
	return true
}

// Remove drops the entry for id, reporting whether it existed.
func (x *Index) Remove(id model.ID) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.items[id]; !ok {
		return false
	}
	delete(x.items, id)
	x.recompile()
	return true
}

// Items returns all entries sorted by name.
func (x *Index) Items() []Item {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Item, 0, len(x.items))
	for _, it := range x.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Rebuild clears the index and walks the whole project collecting
// glossary items.
func (x *Index) Rebuild(p *model.Project) error {
	x.mu.Lock()
	x.items = make(map[model.ID]Item)
	x.recompile()
	x.mu.Unlock()

	docs, err := p.Documents()
	if err != nil {
		return err
	}
	var walk func(o *model.Object) error
	walk = func(o *model.Object) error {
		x.Put(o)
		children, err := o.Children()
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, d := range docs {
		if err := walk(d); err != nil {
			return err
		}
	}
	return nil
}

// Highlight wraps every glossary term in text with an anchor referencing
// the item's object ID. Matching is case-insensitive on word boundaries;
// longer terms win over their prefixes.
func (x *Index) Highlight(text string) string {
	x.mu.RLock()
	matcher := x.matcher
	byName := x.byName
	x.mu.RUnlock()
	if matcher == nil {
		return text
	}
	return matcher.ReplaceAllStringFunc(text, func(match string) string {
		item, ok := byName[strings.ToLower(match)]
		if !ok {
			return match
		}
		return fmt.Sprintf("<a href=\"#%s\">%s</a>", item.ID, match)
	})
}

// recompile rebuilds the term matcher; callers hold the write lock.
// Alternatives are ordered longest-first so the regexp engine prefers the
// most specific term.
func (x *Index) recompile() {
	if len(x.items) == 0 {
		x.matcher = nil
		x.byName = nil
		return
	}
	byName := make(map[string]Item, len(x.items))
	names := make([]string, 0, len(x.items))
	for _, it := range x.items {
		key := strings.ToLower(it.Name)
		byName[key] = it
		names = append(names, it.Name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	x.matcher = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	x.byName = byName
}
