package decision

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrDuplicateName is returned when two items in a [Set] share a name.
	ErrDuplicateName = errors.New("duplicate decision item name")

	// ErrNilItem is returned when a nil item is added to a [Set].
	ErrNilItem = errors.New("nil decision item")
)

// Set is an ordered collection of items with unique names.
// The zero value is an empty set ready to use.
// It is not safe for concurrent modification.
type Set struct {
	index map[string]Item
	items []Item
}

// NewSet creates a [Set] containing items, in order.
func NewSet(items ...Item) (*Set, error) {
	s := &Set{index: map[string]Item{}}
	for _, item := range items {
		err := s.Add(item)
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add appends item to the set.
func (s *Set) Add(item Item) error {
	if isNil(item) {
		return ErrNilItem
	}

	if s.index == nil {
		s.index = map[string]Item{}
	}

	name := item.Name()
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	s.index[name] = item
	s.items = append(s.items, item)

	return nil
}

func isNil(item Item) bool {
	if item == nil {
		return true
	}

	v := reflect.ValueOf(item)

	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Get returns the item with the given name.
//
//nolint:ireturn // Items are polymorphic.
func (s *Set) Get(name string) (Item, bool) {
	item, ok := s.index[name]
	return item, ok
}

// Names returns the item names in insertion order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.items))
	for _, item := range s.items {
		names = append(names, item.Name())
	}

	return names
}

// All returns the items in insertion order.
func (s *Set) All() []Item {
	return append([]Item(nil), s.items...)
}

// Len returns the number of items.
func (s *Set) Len() int {
	return len(s.items)
}

// Result is the outcome of evaluating one [Evaluator].
type Result struct {
	Value any
	Err   error
	Name  string
}

// Evaluate runs every [Evaluator] in the set against vars, in order.
// Items that are not evaluators are skipped. Evaluation errors are recorded
// per item and do not stop the remaining items.
func (s *Set) Evaluate(ctx context.Context, vars map[string]any) []Result {
	results := make([]Result, 0, len(s.items))
	for _, item := range s.items {
		ev, ok := item.(Evaluator)
		if !ok {
			continue
		}

		v, err := ev.Evaluate(ctx, vars)
		results = append(results, Result{Name: item.Name(), Value: v, Err: err})
	}

	return results
}
