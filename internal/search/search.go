// Package search implements the substring lookup used by the sale composer's
// customer and item pickers, and by the list screens.
package search

import (
	"strings"

	"inventora/webclient/internal/domain"
)

// Entity is anything a picker can list: it has a stable id and one or more
// texts a query is matched against.
type Entity interface {
	EntityID() string
	SearchText() []string
}

// Filter returns the corpus entries whose search text contains query,
// ignoring case. The query is matched as typed, spaces included. An empty
// query yields no results, not the whole corpus. Corpus order is preserved.
func Filter[T Entity](query string, corpus []T) []T {
	needle := strings.ToLower(query)
	if needle == "" {
		return []T{}
	}
	out := make([]T, 0)
	for _, entry := range corpus {
		if matches(entry.SearchText(), needle) {
			out = append(out, entry)
		}
	}
	return out
}

// Match is the list-screen variant of Filter: an empty query keeps every row.
func Match[T any](query string, rows []T, text func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if matches(text(row), needle) {
			out = append(out, row)
		}
	}
	return out
}

func matches(texts []string, needle string) bool {
	for _, text := range texts {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

// Picker is the state behind one search box: the corpus loaded when the
// composer opened, the current query and its results, and the chosen entry.
type Picker[T Entity] struct {
	corpus   []T
	query    string
	results  []T
	selected *T
}

func (p *Picker[T]) SetCorpus(corpus []T) {
	p.corpus = append([]T(nil), corpus...)
	if p.selected != nil {
		if fresh, ok := p.find((*p.selected).EntityID()); ok {
			p.selected = &fresh
		}
	}
	p.results = Filter(p.query, p.corpus)
}

func (p *Picker[T]) Corpus() []T {
	return append([]T(nil), p.corpus...)
}

// Search recomputes results from scratch on every call.
func (p *Picker[T]) Search(query string) []T {
	p.query = query
	p.results = Filter(query, p.corpus)
	return p.Results()
}

// Select records the entry with the given id, then clears the query text
// and closes the result list.
func (p *Picker[T]) Select(id string) (T, error) {
	entry, ok := p.find(id)
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	p.selected = &entry
	p.query = ""
	p.results = []T{}
	return entry, nil
}

func (p *Picker[T]) Selected() (T, bool) {
	if p.selected == nil {
		var zero T
		return zero, false
	}
	return *p.selected, true
}

func (p *Picker[T]) Query() string { return p.query }

func (p *Picker[T]) Results() []T {
	return append([]T{}, p.results...)
}

func (p *Picker[T]) ClearSelection() {
	p.selected = nil
}

// Reset forgets query, results and selection but keeps the corpus.
func (p *Picker[T]) Reset() {
	p.query = ""
	p.results = []T{}
	p.selected = nil
}

func (p *Picker[T]) find(id string) (T, bool) {
	for _, entry := range p.corpus {
		if entry.EntityID() == id {
			return entry, true
		}
	}
	var zero T
	return zero, false
}
