package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sghaida/lunchtray/menu"
	"github.com/sghaida/lunchtray/money"
)

// slot is one course of the order. previousPrice is what the current
// selection added to the subtotal, kept so a replacement can reverse it.
type slot struct {
	selected      *menu.Item
	previousPrice decimal.Decimal
	view          *Observable[*menu.Item]
}

// State is the in-progress order.
//
// After every exported call, tax == subtotal × taxRate and
// total == subtotal + tax. Mutations are published as one update: every
// observable is stored first, then the changed ones notify.
//
// A State is not safe for concurrent use; it belongs to the host that
// created it.
type State struct {
	id        uuid.UUID
	catalog   menu.Catalog
	taxRate   decimal.Decimal
	formatter *money.Formatter
	logger    *zap.Logger
	reselect  ReselectPolicy

	slots    [numCourses]slot
	subtotal decimal.Decimal
	tax      decimal.Decimal
	total    decimal.Decimal

	subtotalText *Observable[string]
	taxText      *Observable[string]
	totalText    *Observable[string]
}

// New returns an empty order that prices items from catalog.
//
// Defaults: tax rate money.DefaultTaxRate, en-US dollars, a no-op logger,
// ReselectNoOp and a random order ID.
func New(catalog menu.Catalog, opts ...Option) (*State, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	s := &State{
		id:        uuid.New(),
		catalog:   catalog,
		taxRate:   money.DefaultTaxRate,
		formatter: money.DefaultFormatter(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	for i := range s.slots {
		s.slots[i].view = newObservable[*menu.Item](nil, sameItem)
	}
	zero := s.formatter.Format(decimal.Zero)
	s.subtotalText = newObservable(zero, sameString)
	s.taxText = newObservable(zero, sameString)
	s.totalText = newObservable(zero, sameString)
	return s, nil
}

// SetEntree selects the entree by catalog key.
func (s *State) SetEntree(key string) error { return s.Set(Entree, key) }

// SetSide selects the side by catalog key.
func (s *State) SetSide(key string) error { return s.Set(Side, key) }

// SetAccompaniment selects the accompaniment by catalog key.
func (s *State) SetAccompaniment(key string) error { return s.Set(Accompaniment, key) }

// Set selects the item for course, replacing any earlier selection.
//
// An unknown key returns UnknownItemError and leaves the order unchanged.
// Selecting the key already in the slot follows the ReselectPolicy.
func (s *State) Set(course Course, key string) error {
	if !course.valid() {
		return UnknownCourseError{Course: course}
	}
	item, ok := s.catalog.Lookup(key)
	if !ok {
		s.logger.Debug("unknown menu item",
			zap.String("order_id", s.id.String()),
			zap.Stringer("course", course),
			zap.String("key", key))
		return UnknownItemError{Course: course, Key: key}
	}

	sl := &s.slots[course]
	previous := ""
	if sl.selected != nil {
		previous = sl.selected.Key
	}

	switch {
	case sl.selected == nil:
	case previous != key:
		s.subtotal = s.subtotal.Sub(sl.previousPrice)
	case s.reselect == ReselectNoOp:
		s.logger.Debug("item already selected",
			zap.String("order_id", s.id.String()),
			zap.Stringer("course", course),
			zap.String("key", key))
		return nil
	}

	sl.previousPrice = item.Price
	s.subtotal = s.subtotal.Add(item.Price)
	sl.selected = &item
	s.calculateTaxAndTotal()
	s.commit()

	s.logger.Debug("item selected",
		zap.String("order_id", s.id.String()),
		zap.Stringer("course", course),
		zap.String("key", key),
		zap.String("previous", previous),
		zap.Stringer("subtotal", s.subtotal),
		zap.Stringer("total", s.total))
	return nil
}

// Reset clears every slot and zeroes all amounts. The order ID is kept.
func (s *State) Reset() {
	for i := range s.slots {
		s.slots[i].selected = nil
		s.slots[i].previousPrice = decimal.Zero
	}
	s.subtotal = decimal.Zero
	s.tax = decimal.Zero
	s.total = decimal.Zero
	s.commit()

	s.logger.Debug("order reset", zap.String("order_id", s.id.String()))
}

// CalculateTaxAndTotal recomputes tax and total from the current subtotal
// and publishes any change. The setters already call it.
func (s *State) CalculateTaxAndTotal() {
	s.calculateTaxAndTotal()
	s.commit()
}

func (s *State) calculateTaxAndTotal() {
	s.tax = money.Tax(s.subtotal, s.taxRate)
	s.total = money.Total(s.subtotal, s.tax)
}

// commit stores every observable value, then notifies the ones that
// changed, so a subscriber reading a sibling observable sees the new state.
func (s *State) commit() {
	var changed []func()
	for i := range s.slots {
		v := s.slots[i].view
		if v.store(s.slots[i].selected) {
			changed = append(changed, v.publish)
		}
	}
	for _, m := range []struct {
		o *Observable[string]
		d decimal.Decimal
	}{
		{s.subtotalText, s.subtotal},
		{s.taxText, s.tax},
		{s.totalText, s.total},
	} {
		if m.o.store(s.formatter.Format(m.d)) {
			changed = append(changed, m.o.publish)
		}
	}
	for _, publish := range changed {
		publish()
	}
}

// ID returns the order ID.
func (s *State) ID() uuid.UUID { return s.id }

// TaxRate returns the configured tax rate.
func (s *State) TaxRate() decimal.Decimal { return s.taxRate }

// ReselectPolicy returns the configured reselect behaviour.
func (s *State) ReselectPolicy() ReselectPolicy { return s.reselect }

// Entree is the observable entree selection; nil means unselected.
func (s *State) Entree() *Observable[*menu.Item] { return s.slots[Entree].view }

// Side is the observable side selection; nil means unselected.
func (s *State) Side() *Observable[*menu.Item] { return s.slots[Side].view }

// Accompaniment is the observable accompaniment selection; nil means unselected.
func (s *State) Accompaniment() *Observable[*menu.Item] { return s.slots[Accompaniment].view }

// Selection returns the observable for course, or nil for an unknown course.
func (s *State) Selection(course Course) *Observable[*menu.Item] {
	if !course.valid() {
		return nil
	}
	return s.slots[course].view
}

// Subtotal is the formatted subtotal.
func (s *State) Subtotal() *Observable[string] { return s.subtotalText }

// Tax is the formatted tax.
func (s *State) Tax() *Observable[string] { return s.taxText }

// Total is the formatted total.
func (s *State) Total() *Observable[string] { return s.totalText }

func (s *State) SubtotalAmount() decimal.Decimal { return s.subtotal }
func (s *State) TaxAmount() decimal.Decimal      { return s.tax }
func (s *State) TotalAmount() decimal.Decimal    { return s.total }

// Summary is a point-in-time copy of an order.
type Summary struct {
	OrderID       uuid.UUID
	Entree        *menu.Item
	Side          *menu.Item
	Accompaniment *menu.Item
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	SubtotalText  string
	TaxText       string
	TotalText     string
}

// Summary returns a snapshot of the order.
func (s *State) Summary() Summary {
	return Summary{
		OrderID:       s.id,
		Entree:        copyItem(s.slots[Entree].selected),
		Side:          copyItem(s.slots[Side].selected),
		Accompaniment: copyItem(s.slots[Accompaniment].selected),
		Subtotal:      s.subtotal,
		Tax:           s.tax,
		Total:         s.total,
		SubtotalText:  s.subtotalText.Value(),
		TaxText:       s.taxText.Value(),
		TotalText:     s.totalText.Value(),
	}
}

func copyItem(it *menu.Item) *menu.Item {
	if it == nil {
		return nil
	}
	cp := *it
	return &cp
}

func sameString(a, b string) bool { return a == b }

func sameItem(a, b *menu.Item) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
