package order_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sghaida/lunchtray/menu"
	"github.com/sghaida/lunchtray/money"
	"github.com/sghaida/lunchtray/order"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testCatalog has the two price pairs used throughout: A/B for replacement
// and Entree/Side for the tax walk-through.
func testCatalog() *menu.MapCatalog {
	return menu.NewMapCatalog().
		Provide(menu.Item{Key: "A", Name: "A", Price: dec("3.00"), Type: menu.TypeEntree}).
		Provide(menu.Item{Key: "B", Name: "B", Price: dec("5.00"), Type: menu.TypeEntree}).
		Provide(menu.Item{Key: "Entree", Name: "Entree", Price: dec("7.00"), Type: menu.TypeEntree}).
		Provide(menu.Item{Key: "Side", Name: "Side", Price: dec("2.50"), Type: menu.TypeSide}).
		Provide(menu.Item{Key: "Roll", Name: "Roll", Price: dec("0.50"), Type: menu.TypeAccompaniment})
}

func newState(t *testing.T, opts ...order.Option) *order.State {
	t.Helper()

	st, err := order.New(testCatalog(), opts...)
	require.NoError(t, err)
	return st
}

// requireAmounts asserts the raw amounts and the tax/total invariants.
func requireAmounts(t *testing.T, st *order.State, subtotal, tax, total string) {
	t.Helper()

	assert.True(t, st.SubtotalAmount().Equal(dec(subtotal)), "subtotal: got %s want %s", st.SubtotalAmount(), subtotal)
	assert.True(t, st.TaxAmount().Equal(dec(tax)), "tax: got %s want %s", st.TaxAmount(), tax)
	assert.True(t, st.TotalAmount().Equal(dec(total)), "total: got %s want %s", st.TotalAmount(), total)
	requireInvariants(t, st)
}

func requireInvariants(t *testing.T, st *order.State) {
	t.Helper()

	require.True(t, st.TaxAmount().Equal(st.SubtotalAmount().Mul(st.TaxRate())), "tax != subtotal * rate")
	require.True(t, st.TotalAmount().Equal(st.SubtotalAmount().Add(st.TaxAmount())), "total != subtotal + tax")
}

func requireEmpty(t *testing.T, st *order.State) {
	t.Helper()

	for _, c := range order.Courses {
		assert.Nil(t, st.Selection(c).Value(), "%s should be unselected", c)
	}
	assert.True(t, st.SubtotalAmount().IsZero())
	assert.True(t, st.TaxAmount().IsZero())
	assert.True(t, st.TotalAmount().IsZero())
	assert.Equal(t, "$0.00", st.Subtotal().Value())
	assert.Equal(t, "$0.00", st.Tax().Value())
	assert.Equal(t, "$0.00", st.Total().Value())
}

//
// -----------------------------------------------------------------------------
// New / options
// -----------------------------------------------------------------------------

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	st := newState(t)

	requireEmpty(t, st)
	assert.True(t, st.TaxRate().Equal(dec("0.08")))
	assert.Equal(t, order.ReselectNoOp, st.ReselectPolicy())
	assert.NotEqual(t, uuid.Nil, st.ID())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		catalog menu.Catalog
		opts    []order.Option
		wantIs  error
		wantAs  bool
	}{
		{name: "nil catalog", catalog: nil, wantIs: order.ErrNilCatalog},
		{name: "nil formatter", catalog: testCatalog(), opts: []order.Option{order.WithFormatter(nil)}, wantIs: order.ErrNilFormatter},
		{name: "negative tax rate", catalog: testCatalog(), opts: []order.Option{order.WithTaxRate(dec("-0.01"))}, wantAs: true},
		{name: "tax rate above one", catalog: testCatalog(), opts: []order.Option{order.WithTaxRate(dec("1.5"))}, wantAs: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st, err := order.New(tc.catalog, tc.opts...)
			require.Error(t, err)
			assert.Nil(t, st)

			if tc.wantIs != nil {
				assert.True(t, errors.Is(err, tc.wantIs))
			}
			if tc.wantAs {
				var rateErr order.InvalidTaxRateError
				require.True(t, errors.As(err, &rateErr))
				assert.Contains(t, rateErr.Error(), "outside [0, 1]")
			}
		})
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6f1c2b8e-3a4d-4e5f-8a9b-0c1d2e3f4a5b")
	f := money.MustFormatter("en-GB", "GBP", "£")

	st := newState(t,
		nil,
		order.WithID(id),
		order.WithTaxRate(dec("0.2")),
		order.WithFormatter(f),
		order.WithLogger(nil),
		order.WithReselectPolicy(order.ReselectCharge),
	)

	assert.Equal(t, id, st.ID())
	assert.True(t, st.TaxRate().Equal(dec("0.2")))
	assert.Equal(t, order.ReselectCharge, st.ReselectPolicy())
	assert.Equal(t, "£0.00", st.Total().Value())

	require.NoError(t, st.SetEntree("B"))
	requireAmounts(t, st, "5.00", "1.00", "6.00")
	assert.Equal(t, "£6.00", st.Total().Value())
}

//
// -----------------------------------------------------------------------------
// Selection / pricing
// -----------------------------------------------------------------------------

// TestScenario_EntreeThenSide walks 7.00 + 2.50 at 8% tax.
func TestScenario_EntreeThenSide(t *testing.T) {
	t.Parallel()

	st := newState(t)

	require.NoError(t, st.SetEntree("Entree"))
	requireAmounts(t, st, "7.00", "0.56", "7.56")
	assert.Equal(t, "$7.00", st.Subtotal().Value())
	assert.Equal(t, "$0.56", st.Tax().Value())
	assert.Equal(t, "$7.56", st.Total().Value())

	require.NoError(t, st.SetSide("Side"))
	requireAmounts(t, st, "9.50", "0.76", "10.26")
	assert.Equal(t, "$9.50", st.Subtotal().Value())
	assert.Equal(t, "$0.76", st.Tax().Value())
	assert.Equal(t, "$10.26", st.Total().Value())

	require.NotNil(t, st.Entree().Value())
	assert.Equal(t, "Entree", st.Entree().Value().Key)
	require.NotNil(t, st.Side().Value())
	assert.Equal(t, "Side", st.Side().Value().Key)
	assert.Nil(t, st.Accompaniment().Value())
}

// TestReplace_ReversesPreviousPrice verifies A (3.00) then B (5.00) leaves 5.00, not 8.00.
func TestReplace_ReversesPreviousPrice(t *testing.T) {
	t.Parallel()

	st := newState(t)

	require.NoError(t, st.SetEntree("A"))
	require.NoError(t, st.SetEntree("B"))
	requireAmounts(t, st, "5.00", "0.40", "5.40")
	assert.Equal(t, "B", st.Entree().Value().Key)

	// and back again
	require.NoError(t, st.SetEntree("A"))
	requireAmounts(t, st, "3.00", "0.24", "3.24")
}

// TestReplace_SlotsAreIndependent verifies replacing one course leaves the others' charges alone.
func TestReplace_SlotsAreIndependent(t *testing.T) {
	t.Parallel()

	st := newState(t)

	require.NoError(t, st.SetEntree("A"))
	require.NoError(t, st.SetSide("Side"))
	require.NoError(t, st.SetAccompaniment("Roll"))
	requireAmounts(t, st, "6.00", "0.48", "6.48")

	require.NoError(t, st.SetEntree("B"))
	requireAmounts(t, st, "8.00", "0.64", "8.64")

	// the same item may sit in two different slots
	require.NoError(t, st.SetSide("A"))
	requireAmounts(t, st, "8.50", "0.68", "9.18")
}

func TestSet_GenericMatchesNamedSetters(t *testing.T) {
	t.Parallel()

	a := newState(t)
	b := newState(t)

	require.NoError(t, a.SetAccompaniment("Roll"))
	require.NoError(t, b.Set(order.Accompaniment, "Roll"))

	assert.True(t, a.TotalAmount().Equal(b.TotalAmount()))
	assert.Equal(t, a.Accompaniment().Value().Key, b.Selection(order.Accompaniment).Value().Key)
}

func TestSet_UnknownCourse(t *testing.T) {
	t.Parallel()

	st := newState(t)

	err := st.Set(order.Course(7), "A")
	var courseErr order.UnknownCourseError
	require.True(t, errors.As(err, &courseErr))
	assert.Equal(t, order.Course(7), courseErr.Course)
	assert.Equal(t, "order: unknown course 7", err.Error())
	assert.Nil(t, st.Selection(order.Course(7)))
	requireEmpty(t, st)
}

//
// -----------------------------------------------------------------------------
// Unknown keys
// -----------------------------------------------------------------------------

func TestSetEntree_UnknownKeyLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	st := newState(t)
	require.NoError(t, st.SetEntree("Entree"))
	require.NoError(t, st.SetSide("Side"))
	before := st.Summary()

	notified := 0
	st.Total().Subscribe(func(string) { notified++ })
	notified = 0

	err := st.SetEntree("nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrUnknownItem))

	var unknown order.UnknownItemError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nonexistent", unknown.Key)
	assert.Equal(t, order.Entree, unknown.Course)
	assert.Equal(t, `order: unknown menu item "nonexistent" for entree`, err.Error())

	assert.Equal(t, before, st.Summary())
	assert.Equal(t, 0, notified)
	requireAmounts(t, st, "9.50", "0.76", "10.26")
}

//
// -----------------------------------------------------------------------------
// Reselecting the same key
// -----------------------------------------------------------------------------

func TestReselect_NoOpByDefault(t *testing.T) {
	t.Parallel()

	st := newState(t)
	require.NoError(t, st.SetEntree("Entree"))

	notified := 0
	st.Subtotal().Subscribe(func(string) { notified++ })
	st.Entree().Subscribe(func(*menu.Item) { notified++ })
	notified = 0

	require.NoError(t, st.SetEntree("Entree"))
	requireAmounts(t, st, "7.00", "0.56", "7.56")
	assert.Equal(t, 0, notified)

	// replacing after a reselect still reverses exactly one charge
	require.NoError(t, st.SetEntree("A"))
	requireAmounts(t, st, "3.00", "0.24", "3.24")
}

func TestReselect_ChargePolicyDoubleCounts(t *testing.T) {
	t.Parallel()

	st := newState(t, order.WithReselectPolicy(order.ReselectCharge))
	require.NoError(t, st.SetEntree("Entree"))
	require.NoError(t, st.SetEntree("Entree"))
	requireAmounts(t, st, "14.00", "1.12", "15.12")

	// only the most recent charge is reversed on replacement
	require.NoError(t, st.SetEntree("A"))
	requireAmounts(t, st, "10.00", "0.80", "10.80")
}

func TestReselectPolicyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "noop", order.ReselectNoOp.String())
	assert.Equal(t, "charge", order.ReselectCharge.String())
}

//
// -----------------------------------------------------------------------------
// Reset
// -----------------------------------------------------------------------------

func TestReset_ClearsEverything(t *testing.T) {
	t.Parallel()

	st := newState(t)
	id := st.ID()
	require.NoError(t, st.SetEntree("B"))
	require.NoError(t, st.SetSide("Side"))
	require.NoError(t, st.SetAccompaniment("Roll"))

	st.Reset()
	requireEmpty(t, st)
	requireInvariants(t, st)
	assert.Equal(t, id, st.ID())

	// previous prices are cleared too: a fresh selection is not reduced
	require.NoError(t, st.SetEntree("A"))
	requireAmounts(t, st, "3.00", "0.24", "3.24")
}

func TestReset_Idempotent(t *testing.T) {
	t.Parallel()

	st := newState(t)
	require.NoError(t, st.SetEntree("Entree"))

	st.Reset()
	once := st.Summary()

	notified := 0
	for _, c := range order.Courses {
		st.Selection(c).Subscribe(func(*menu.Item) { notified++ })
	}
	st.Total().Subscribe(func(string) { notified++ })
	notified = 0

	st.Reset()
	assert.Equal(t, once, st.Summary())
	assert.Equal(t, 0, notified, "second reset changes nothing")
}

func TestReset_PublishesOnce(t *testing.T) {
	t.Parallel()

	st := newState(t)
	require.NoError(t, st.SetEntree("Entree"))
	require.NoError(t, st.SetSide("Side"))

	var totals []string
	st.Total().Subscribe(func(v string) { totals = append(totals, v) })

	st.Reset()
	assert.Equal(t, []string{"$10.26", "$0.00"}, totals)
}

//
// -----------------------------------------------------------------------------
// CalculateTaxAndTotal
// -----------------------------------------------------------------------------

func TestCalculateTaxAndTotal_StableWhenNothingChanged(t *testing.T) {
	t.Parallel()

	st := newState(t)
	require.NoError(t, st.SetEntree("Entree"))

	calls := 0
	st.Tax().Subscribe(func(string) { calls++ })
	calls = 0

	st.CalculateTaxAndTotal()
	requireAmounts(t, st, "7.00", "0.56", "7.56")
	assert.Equal(t, 0, calls)
}

//
// -----------------------------------------------------------------------------
// Observers
// -----------------------------------------------------------------------------

// TestObservers_SeeConsistentSiblings verifies no subscriber observes a half-applied update.
func TestObservers_SeeConsistentSiblings(t *testing.T) {
	t.Parallel()

	st := newState(t)

	type view struct {
		entree   string
		subtotal string
		total    string
	}
	var seen []view
	st.Entree().Subscribe(func(it *menu.Item) {
		key := ""
		if it != nil {
			key = it.Key
		}
		seen = append(seen, view{key, st.Subtotal().Value(), st.Total().Value()})
	})
	seen = nil

	require.NoError(t, st.SetEntree("A"))
	require.NoError(t, st.SetEntree("B"))

	assert.Equal(t, []view{
		{"A", "$3.00", "$3.24"},
		{"B", "$5.00", "$5.40"},
	}, seen)
}

func TestObservers_PublishOrderAndPayloads(t *testing.T) {
	t.Parallel()

	st := newState(t)

	var events []string
	st.Entree().Subscribe(func(it *menu.Item) {
		if it != nil {
			events = append(events, "entree="+it.Key)
		}
	})
	st.Subtotal().Subscribe(func(v string) { events = append(events, "subtotal="+v) })
	st.Tax().Subscribe(func(v string) { events = append(events, "tax="+v) })
	st.Total().Subscribe(func(v string) { events = append(events, "total="+v) })
	events = nil

	require.NoError(t, st.SetEntree("Entree"))
	assert.Equal(t, []string{
		"entree=Entree",
		"subtotal=$7.00",
		"tax=$0.56",
		"total=$7.56",
	}, events)
}

func TestObservers_Unsubscribe(t *testing.T) {
	t.Parallel()

	st := newState(t)

	calls := 0
	unsub := st.Subtotal().Subscribe(func(string) { calls++ })
	unsub()

	require.NoError(t, st.SetEntree("A"))
	assert.Equal(t, 1, calls, "only the initial delivery")
}

//
// -----------------------------------------------------------------------------
// Summary
// -----------------------------------------------------------------------------

func TestSummary_IsACopy(t *testing.T) {
	t.Parallel()

	st := newState(t)
	require.NoError(t, st.SetEntree("A"))

	sum := st.Summary()
	require.NotNil(t, sum.Entree)
	sum.Entree.Name = "mutated"

	assert.Equal(t, "A", st.Entree().Value().Name)
	assert.Equal(t, "$3.24", sum.TotalText)
	assert.Equal(t, st.ID(), sum.OrderID)
	assert.Nil(t, sum.Side)
}

//
// -----------------------------------------------------------------------------
// Logging
// -----------------------------------------------------------------------------

func TestLogger_RecordsSelections(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	st := newState(t, order.WithLogger(zap.New(core)))

	require.NoError(t, st.SetEntree("A"))
	require.NoError(t, st.SetEntree("B"))
	require.Error(t, st.SetSide("nope"))
	st.Reset()

	selected := logs.FilterMessage("item selected").All()
	require.Len(t, selected, 2)
	fields := selected[1].ContextMap()
	assert.Equal(t, st.ID().String(), fields["order_id"])
	assert.Equal(t, "entree", fields["course"])
	assert.Equal(t, "B", fields["key"])
	assert.Equal(t, "A", fields["previous"])
	assert.Equal(t, "5", fields["subtotal"])

	assert.Equal(t, 1, logs.FilterMessage("unknown menu item").Len())
	assert.Equal(t, 1, logs.FilterMessage("order reset").Len())
}

//
// -----------------------------------------------------------------------------
// Course
// -----------------------------------------------------------------------------

func TestCourse_StringAndParse(t *testing.T) {
	t.Parallel()

	for _, c := range order.Courses {
		got, ok := order.ParseCourse(c.String())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := order.ParseCourse("dessert")
	assert.False(t, ok)
	assert.Equal(t, "course(9)", order.Course(9).String())
}
