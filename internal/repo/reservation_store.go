package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cartlock/internal/models"
)

var ErrNotFound = errors.New("reservation not found")

type ReservationStore struct{ db *gorm.DB }

func NewReservationStore(db *gorm.DB) *ReservationStore { return &ReservationStore{db: db} }

func (s *ReservationStore) Insert(ctx context.Context, r *models.Reservation) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *ReservationStore) ByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindOverlapping — пересечение включительных диапазонов:
// existing.start <= queryEnd AND existing.end >= queryStart.
// Заархивированные брони в выборку не попадают.
func (s *ReservationStore) FindOverlapping(ctx context.Context, startDate, endDate string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ? AND archived = ?", endDate, startDate, false).
		Find(&out).Error
	return out, err
}

func (s *ReservationStore) ListActive(ctx context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.db.WithContext(ctx).
		Where("archived = ?", false).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (s *ReservationStore) Save(ctx context.Context, r *models.Reservation) error {
	return s.db.WithContext(ctx).Save(r).Error
}

// Delete терпим к отсутствующей записи: повторное удаление — no-op.
func (s *ReservationStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Reservation{}, id).Error
}

func (s *ReservationStore) BulkDelete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Reservation{}, ids).Error
}
