// Package decision defines named units of decision logic.
//
// Every [Item] has a name derived once, at construction, from its concrete
// type with [github.com/macropower/rtool/pkg/naming]. Concrete items embed
// [Base] and pass either their type name or themselves to the constructor:
//
//	type OrderApprovalRule struct {
//		decision.Base
//	}
//
//	func NewOrderApprovalRule() *OrderApprovalRule {
//		r := &OrderApprovalRule{}
//		r.Base = decision.NewBaseFor(r) // Name() == "orderApprovalRule"
//		return r
//	}
//
// [Expr] is a ready-made item that evaluates a single expression with an
// engine from [github.com/macropower/rtool/pkg/engine].
package decision
