package store

import (
	"context"
	"sort"
	"sync"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

// Memory is a mutex-guarded in-memory Store. It backs local runs without a
// database and the handler tests. With a snapshot path set it persists every
// mutation to a JSON file, best effort, so restarts keep the operator's
// data.
type Memory struct {
	mu            sync.RWMutex
	bookings      map[string]model.Booking
	equipment     map[string]model.Equipment
	clients       map[string]model.Client
	payments      map[string]model.Payment
	quotes        map[string]model.Quote
	snapshotPath  string
	onSnapshotErr func(error)
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		bookings:  map[string]model.Booking{},
		equipment: map[string]model.Equipment{},
		clients:   map[string]model.Client{},
		payments:  map[string]model.Payment{},
		quotes:    map[string]model.Quote{},
	}
}

func (m *Memory) ListBookings(ctx context.Context) ([]model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sortByID(out, func(b model.Booking) string { return b.ID })
	return out, nil
}

func (m *Memory) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, model.ErrBookingNotFound
	}
	return b, nil
}

func (m *Memory) InsertBooking(ctx context.Context, b model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	m.snapshotLocked()
	return nil
}

func (m *Memory) UpdateBooking(ctx context.Context, b model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return model.ErrBookingNotFound
	}
	m.bookings[b.ID] = b
	m.snapshotLocked()
	return nil
}

func (m *Memory) DeleteBooking(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return model.ErrBookingNotFound
	}
	delete(m.bookings, id)
	m.snapshotLocked()
	return nil
}

func (m *Memory) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Equipment, 0, len(m.equipment))
	for _, e := range m.equipment {
		out = append(out, e)
	}
	sortByID(out, func(e model.Equipment) string { return e.ID })
	return out, nil
}

func (m *Memory) GetEquipment(ctx context.Context, id string) (model.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.equipment[id]
	if !ok {
		return model.Equipment{}, model.ErrEquipmentNotFound
	}
	return e, nil
}

func (m *Memory) InsertEquipment(ctx context.Context, e model.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equipment[e.ID] = e
	m.snapshotLocked()
	return nil
}

func (m *Memory) UpdateEquipment(ctx context.Context, e model.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipment[e.ID]; !ok {
		return model.ErrEquipmentNotFound
	}
	m.equipment[e.ID] = e
	m.snapshotLocked()
	return nil
}

func (m *Memory) DeleteEquipment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipment[id]; !ok {
		return model.ErrEquipmentNotFound
	}
	delete(m.equipment, id)
	m.snapshotLocked()
	return nil
}

func (m *Memory) SetEquipmentStatus(ctx context.Context, id string, status model.EquipmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.equipment[id]
	if !ok {
		return model.ErrEquipmentNotFound
	}
	e.Status = status
	m.equipment[id] = e
	m.snapshotLocked()
	return nil
}

func (m *Memory) ListClients(ctx context.Context) ([]model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sortByID(out, func(c model.Client) string { return c.ID })
	return out, nil
}

func (m *Memory) GetClient(ctx context.Context, id string) (model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return model.Client{}, model.ErrClientNotFound
	}
	return c, nil
}

func (m *Memory) InsertClient(ctx context.Context, c model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	m.snapshotLocked()
	return nil
}

func (m *Memory) UpdateClient(ctx context.Context, c model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[c.ID]; !ok {
		return model.ErrClientNotFound
	}
	m.clients[c.ID] = c
	m.snapshotLocked()
	return nil
}

func (m *Memory) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return model.ErrClientNotFound
	}
	delete(m.clients, id)
	m.snapshotLocked()
	return nil
}

func (m *Memory) ListPayments(ctx context.Context) ([]model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, p)
	}
	sortByID(out, func(p model.Payment) string { return p.ID })
	return out, nil
}

func (m *Memory) GetPayment(ctx context.Context, id string) (model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return model.Payment{}, model.ErrPaymentNotFound
	}
	return p, nil
}

func (m *Memory) GetPaymentByStripeSession(ctx context.Context, sessionID string) (model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.StripeSessionID != "" && p.StripeSessionID == sessionID {
			return p, nil
		}
	}
	return model.Payment{}, model.ErrPaymentNotFound
}

func (m *Memory) InsertPayment(ctx context.Context, p model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	m.snapshotLocked()
	return nil
}

func (m *Memory) UpdatePayment(ctx context.Context, p model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.ID]; !ok {
		return model.ErrPaymentNotFound
	}
	m.payments[p.ID] = p
	m.snapshotLocked()
	return nil
}

func (m *Memory) DeletePayment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return model.ErrPaymentNotFound
	}
	delete(m.payments, id)
	m.snapshotLocked()
	return nil
}

func (m *Memory) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Quote, 0, len(m.quotes))
	for _, q := range m.quotes {
		out = append(out, q)
	}
	sortByID(out, func(q model.Quote) string { return q.ID })
	return out, nil
}

func (m *Memory) GetQuote(ctx context.Context, id string) (model.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quotes[id]
	if !ok {
		return model.Quote{}, model.ErrQuoteNotFound
	}
	return q, nil
}

func (m *Memory) InsertQuote(ctx context.Context, q model.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[q.ID] = q
	m.snapshotLocked()
	return nil
}

func (m *Memory) UpdateQuote(ctx context.Context, q model.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quotes[q.ID]; !ok {
		return model.ErrQuoteNotFound
	}
	m.quotes[q.ID] = q
	m.snapshotLocked()
	return nil
}

func (m *Memory) DeleteQuote(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quotes[id]; !ok {
		return model.ErrQuoteNotFound
	}
	delete(m.quotes, id)
	m.snapshotLocked()
	return nil
}

func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
