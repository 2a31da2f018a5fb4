// Package order tracks a single in-progress lunch order.
//
// A State holds three course slots (entree, side, accompaniment), each set
// by catalog key, and derives a subtotal, tax and total from them. Every
// value is exposed as an Observable so a UI can render it and be told when
// it changes.
//
// Replacing a selection reverses the earlier price before charging the new
// one:
//
//	st, _ := order.New(menu.Default())
//	_ = st.SetEntree("cauliflower") // subtotal 7.00
//	_ = st.SetEntree("chili")       // subtotal 4.00, not 11.00
//
// Re-selecting the item already in a slot is a no-op by default; see
// ReselectPolicy.
//
// Design goals:
//   - One update per call: subscribers never see a half-applied selection.
//   - Exact money: amounts are decimal.Decimal, formatted only for display.
//   - Explicit lifetime: one State per order, owned by its host, no globals.
//
// Import
//
//	"github.com/sghaida/lunchtray/order"
package order
