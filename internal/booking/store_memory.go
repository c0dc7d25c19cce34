package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"cartlock/internal/models"
	"cartlock/internal/repo"
)

// memStore — хранилище без БД (database.driver == "").
// Годится для локальной разработки и тестов.
type memStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]*models.Reservation
}

func NewMemoryStore() Store {
	return &memStore{rows: make(map[uint]*models.Reservation)}
}

func (m *memStore) Insert(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	cp := *r
	m.rows[r.ID] = &cp
	return nil
}

func (m *memStore) ByID(_ context.Context, id uint) (*models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) FindOverlapping(_ context.Context, startDate, endDate string) ([]models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Reservation
	for _, r := range m.rows {
		if r.Archived {
			continue
		}
		// пересечение включительных диапазонов дат
		if r.StartDate <= endDate && r.EndDate >= startDate {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ListActive(_ context.Context) ([]models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Reservation
	for _, r := range m.rows {
		if r.Archived {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) Save(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.rows[r.ID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memStore) BulkDelete(_ context.Context, ids []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}
