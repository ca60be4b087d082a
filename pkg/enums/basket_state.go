package enums

// BasketState tracks a customer's curated basket session.
//
// Allowed transitions:
//
//	idle → generating → generated ⇄ editing → committed
//
// A re-generate from generated/editing returns to generating. The generating
// state is never persisted: a session is only written once a generate
// completes, so an in-flight or abandoned call leaves no state behind.
// The value exists for clients that surface the transition.
type BasketState string

const (
	BasketStateIdle       BasketState = "idle"
	BasketStateGenerating BasketState = "generating"
	BasketStateGenerated  BasketState = "generated"
	BasketStateEditing    BasketState = "editing"
	BasketStateCommitted  BasketState = "committed"
)

// IsValid reports whether the value matches the canonical basket state enum.
func (b BasketState) IsValid() bool {
	switch b {
	case BasketStateIdle, BasketStateGenerating, BasketStateGenerated, BasketStateEditing, BasketStateCommitted:
		return true
	}
	return false
}
