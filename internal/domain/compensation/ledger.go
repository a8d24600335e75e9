package compensation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the ordered set of components of one category assigned to one
// employee during an editing session. Entries are addressed by a local id
// handed out at add time, so removing or reordering entries never retargets
// an edit. At most one add/edit operation can be pending at a time.
type Ledger struct {
	category Category
	nextID   EntryID
	order    []EntryID
	entries  map[EntryID]AssignmentEntry
	pending  *PendingOperation
}

func NewLedger(category Category) *Ledger {
	return &Ledger{
		category: category,
		nextID:   1,
		entries:  make(map[EntryID]AssignmentEntry),
	}
}

func (l *Ledger) Category() Category {
	return l.category
}

func (l *Ledger) Len() int {
	return len(l.order)
}

// Entries returns a copy of the entries in insertion order.
func (l *Ledger) Entries() []AssignmentEntry {
	result := make([]AssignmentEntry, 0, len(l.order))
	for _, id := range l.order {
		result = append(result, l.entries[id])
	}
	return result
}

func (l *Ledger) Get(id EntryID) (AssignmentEntry, bool) {
	e, ok := l.entries[id]
	return e, ok
}

// IndexOf returns the display position of id, or -1.
func (l *Ledger) IndexOf(id EntryID) int {
	for i, candidate := range l.order {
		if candidate == id {
			return i
		}
	}
	return -1
}

// Add computes the amount and appends a new entry. The same type may be
// assigned more than once.
func (l *Ledger) Add(t ComponentType, p Parameters, effectiveDate time.Time, endDate *time.Time) AssignmentEntry {
	entry := AssignmentEntry{
		ID:                l.nextID,
		ComponentTypeID:   t.ID,
		DisplayName:       t.Label,
		CalculationMethod: t.CalculationMethod,
		Mode:              t.Mode,
		EffectiveDate:     effectiveDate,
		EndDate:           endDate,
		ComputedAmount:    Compute(t, p),
		Parameters:        p,
	}
	l.nextID++
	l.entries[entry.ID] = entry
	l.order = append(l.order, entry.ID)
	return entry
}

// Edit recomputes and replaces entry id in place. Its position is unchanged.
func (l *Ledger) Edit(id EntryID, p Parameters, effectiveDate time.Time, endDate *time.Time) (AssignmentEntry, error) {
	entry, ok := l.entries[id]
	if !ok {
		return AssignmentEntry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	entry.Parameters = p
	entry.EffectiveDate = effectiveDate
	entry.EndDate = endDate
	entry.ComputedAmount = Compute(entry.ComponentType(l.category), p)
	l.entries[id] = entry
	return entry, nil
}

func (l *Ledger) Remove(id EntryID) error {
	idx := l.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	l.order = append(l.order[:idx], l.order[idx+1:]...)
	delete(l.entries, id)
	if l.pending != nil && l.pending.Kind == OperationEdit && l.pending.EntryID == id {
		l.pending = nil
	}
	return nil
}

// Total sums the currency amount of fixed-amount entries. Percentage entries
// are not resolved against a base here and are left out.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range l.order {
		e := l.entries[id]
		if e.CalculationMethod != MethodFixedAmount {
			continue
		}
		amount, err := decimal.NewFromString(e.ComputedAmount)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// ========== PENDING OPERATION ==========

func (l *Ledger) Pending() (PendingOperation, bool) {
	if l.pending == nil {
		return PendingOperation{}, false
	}
	return *l.pending, true
}

// BeginAdd opens the add modal for t, pre-filled with the type's default rate
// and today as effective date.
func (l *Ledger) BeginAdd(t ComponentType, today time.Time) (PendingOperation, error) {
	if l.pending != nil {
		return PendingOperation{}, ErrPendingOperation
	}
	params := DefaultParameters(t)
	op := PendingOperation{
		Kind:           OperationAdd,
		Type:           t,
		Parameters:     params,
		EffectiveDate:  today,
		ComputedAmount: Compute(t, params),
	}
	l.pending = &op
	return op, nil
}

// BeginEdit opens the edit modal for an existing entry.
func (l *Ledger) BeginEdit(id EntryID) (PendingOperation, error) {
	if l.pending != nil {
		return PendingOperation{}, ErrPendingOperation
	}
	entry, ok := l.entries[id]
	if !ok {
		return PendingOperation{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	op := PendingOperation{
		Kind:           OperationEdit,
		EntryID:        id,
		Type:           entry.ComponentType(l.category),
		Parameters:     entry.Parameters,
		EffectiveDate:  entry.EffectiveDate,
		EndDate:        entry.EndDate,
		ComputedAmount: entry.ComputedAmount,
	}
	l.pending = &op
	return op, nil
}

// UpdatePending replaces the modal values and recomputes the preview amount.
func (l *Ledger) UpdatePending(p Parameters, effectiveDate time.Time, endDate *time.Time) (PendingOperation, error) {
	if l.pending == nil {
		return PendingOperation{}, ErrNoPendingOperation
	}
	l.pending.Parameters = p
	l.pending.EffectiveDate = effectiveDate
	l.pending.EndDate = endDate
	l.pending.ComputedAmount = Compute(l.pending.Type, p)
	return *l.pending, nil
}

// CommitPending applies the open modal as an add or an edit and closes it.
func (l *Ledger) CommitPending() (AssignmentEntry, error) {
	if l.pending == nil {
		return AssignmentEntry{}, ErrNoPendingOperation
	}
	op := *l.pending

	var (
		entry AssignmentEntry
		err   error
	)
	switch op.Kind {
	case OperationAdd:
		entry = l.Add(op.Type, op.Parameters, op.EffectiveDate, op.EndDate)
	case OperationEdit:
		entry, err = l.Edit(op.EntryID, op.Parameters, op.EffectiveDate, op.EndDate)
		if err != nil {
			return AssignmentEntry{}, err
		}
	default:
		return AssignmentEntry{}, fmt.Errorf("unknown pending operation %q", op.Kind)
	}

	l.pending = nil
	return entry, nil
}

func (l *Ledger) DiscardPending() {
	l.pending = nil
}

// ========== ENCODING ==========

type ledgerJSON struct {
	Category Category          `json:"category"`
	NextID   EntryID           `json:"next_id"`
	Entries  []AssignmentEntry `json:"entries"`
	Pending  *PendingOperation `json:"pending,omitempty"`
}

func (l Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(ledgerJSON{
		Category: l.category,
		NextID:   l.nextID,
		Entries:  l.Entries(),
		Pending:  l.pending,
	})
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw ledgerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.category = raw.Category
	l.nextID = raw.NextID
	l.order = make([]EntryID, 0, len(raw.Entries))
	l.entries = make(map[EntryID]AssignmentEntry, len(raw.Entries))
	for _, e := range raw.Entries {
		l.order = append(l.order, e.ID)
		l.entries[e.ID] = e
		if e.ID >= l.nextID {
			l.nextID = e.ID + 1
		}
	}
	if l.nextID == 0 {
		l.nextID = 1
	}
	l.pending = raw.Pending
	return nil
}
