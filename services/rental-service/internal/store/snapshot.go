package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

// snapshot is the JSON file layout. It mirrors the API wire shapes so the
// file stays readable and editable by hand in a pinch.
type snapshot struct {
	Bookings  []model.Booking   `json:"bookings"`
	Equipment []model.Equipment `json:"equipment"`
	Clients   []model.Client    `json:"clients"`
	Payments  []model.Payment   `json:"payments"`
	Quotes    []model.Quote     `json:"quotes"`
}

// EnableSnapshot turns on file persistence: the store loads path if it
// exists and rewrites it after every mutation. Snapshot failures are
// reported through onErr (may be nil) and never fail the mutation itself.
// It reports whether an existing snapshot was loaded.
func (m *Memory) EnableSnapshot(path string, onErr func(error)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshotPath = path
	m.onSnapshotErr = onErr

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	for _, b := range snap.Bookings {
		m.bookings[b.ID] = b
	}
	for _, e := range snap.Equipment {
		m.equipment[e.ID] = e
	}
	for _, c := range snap.Clients {
		m.clients[c.ID] = c
	}
	for _, p := range snap.Payments {
		m.payments[p.ID] = p
	}
	for _, q := range snap.Quotes {
		m.quotes[q.ID] = q
	}
	return true, nil
}

// snapshotLocked writes the current state to the snapshot file. Callers must
// hold the write lock. Write-to-temp plus rename keeps a crash from leaving
// a half-written file behind.
func (m *Memory) snapshotLocked() {
	if m.snapshotPath == "" {
		return
	}

	snap := snapshot{
		Bookings:  make([]model.Booking, 0, len(m.bookings)),
		Equipment: make([]model.Equipment, 0, len(m.equipment)),
		Clients:   make([]model.Client, 0, len(m.clients)),
		Payments:  make([]model.Payment, 0, len(m.payments)),
		Quotes:    make([]model.Quote, 0, len(m.quotes)),
	}
	for _, b := range m.bookings {
		snap.Bookings = append(snap.Bookings, b)
	}
	for _, e := range m.equipment {
		snap.Equipment = append(snap.Equipment, e)
	}
	for _, c := range m.clients {
		snap.Clients = append(snap.Clients, c)
	}
	for _, p := range m.payments {
		snap.Payments = append(snap.Payments, p)
	}
	for _, q := range m.quotes {
		snap.Quotes = append(snap.Quotes, q)
	}
	sortByID(snap.Bookings, func(b model.Booking) string { return b.ID })
	sortByID(snap.Equipment, func(e model.Equipment) string { return e.ID })
	sortByID(snap.Clients, func(c model.Client) string { return c.ID })
	sortByID(snap.Payments, func(p model.Payment) string { return p.ID })
	sortByID(snap.Quotes, func(q model.Quote) string { return q.ID })

	if err := m.writeSnapshot(snap); err != nil && m.onSnapshotErr != nil {
		m.onSnapshotErr(err)
	}
}

func (m *Memory) writeSnapshot(snap snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := m.snapshotPath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(m.snapshotPath), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
