package booking

import (
	"context"
	"time"

	"cartlock/internal/models"
)

// Store — минимальный контракт хранилища броней, который нужен
// сервису и админке. Реализации: repo.ReservationStore (gorm)
// и memStore (без БД).
type Store interface {
	Insert(ctx context.Context, r *models.Reservation) error
	ByID(ctx context.Context, id uint) (*models.Reservation, error)
	// FindOverlapping возвращает незаархивированные брони, чей
	// [start_date, end_date] пересекается с запрошенным диапазоном
	// (границы включительно).
	FindOverlapping(ctx context.Context, startDate, endDate string) ([]models.Reservation, error)
	// ListActive — все незаархивированные, новые сверху.
	ListActive(ctx context.Context) ([]models.Reservation, error)
	Save(ctx context.Context, r *models.Reservation) error
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) error
}

// LockGateway — контракт шлюза производителя замка.
type LockGateway interface {
	// CreatePasscode выдаёт код, действующий только в [start, end].
	// raw — сырой ответ производителя (кладём в аудит-колонку).
	CreatePasscode(ctx context.Context, name string, start, end time.Time) (pin, keyboardPwdID string, raw []byte, err error)
	// DeletePasscode — best-effort отзыв: ошибки логируются внутри
	// и никогда не доходят до вызывающего.
	DeletePasscode(ctx context.Context, keyboardPwdID string)
}

// Notifier отправляет письмо с вложением.
type Notifier interface {
	Send(to, subject, htmlBody, attName string, attBytes []byte, attMIME string) error
}

// InvoiceRenderer готовит PDF-счёт по брони.
type InvoiceRenderer interface {
	Render(r *models.Reservation) ([]byte, error)
}
