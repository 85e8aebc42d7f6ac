package decision

import "github.com/macropower/rtool/pkg/naming"

// Item is a named unit of decision logic.
type Item interface {
	Name() string
}

// Base holds the name of an [Item]. It is meant to be embedded, and must be
// set before the item is shared with other goroutines.
type Base struct {
	name string
}

// NewBase creates a [Base] named after typeName, e.g. "OrderApprovalRule"
// becomes "orderApprovalRule".
func NewBase(typeName string) Base {
	return Base{name: naming.CamelName(typeName)}
}

// NewBaseFor creates a [Base] named after the concrete type of item.
// A nil item is named "null".
func NewBaseFor(item any) Base {
	return Base{name: naming.CamelNameOf(item)}
}

// Name returns the name assigned at construction.
func (b Base) Name() string {
	return b.name
}
