package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"cartlock/internal/logs"
	"cartlock/internal/models"
)

var ErrBadRange = errors.New("start date is after end date")

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	store   Store
	lock    LockGateway
	mailer  Notifier
	invoice InvoiceRenderer
}

func NewService(store Store, lock LockGateway, mailer Notifier, invoice InvoiceRenderer) *Service {
	return &Service{store: store, lock: lock, mailer: mailer, invoice: invoice}
}

type ReserveInput struct {
	StartDate string
	EndDate   string
	Time      string
	Name      string
	Email     string
	Phone     string
	Price     float64
}

type ReserveResult struct {
	Code string
	Pin  string
}

// CheckAvailability: диапазон свободен, если с ним не пересекается
// ни одна активная бронь.
func (s *Service) CheckAvailability(ctx context.Context, startDate, endDate string) (bool, error) {
	rows, err := s.store.FindOverlapping(ctx, startDate, endDate)
	if err != nil {
		return false, fmt.Errorf("availability query: %w", err)
	}
	return len(rows) == 0, nil
}

// Reserve — сценарий одной заявки: код замка у производителя →
// запись в хранилище → письмо со счётом (после ответа, без отката).
// Любой сбой до записи прерывает заявку целиком, запись не создаётся.
func (s *Service) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	if in.StartDate > in.EndDate {
		return nil, ErrBadRange
	}
	if in.Time == "" {
		in.Time = models.DefaultTime
	}

	now := time.Now()
	// суффикс из uuid спасает от коллизии кодов двух заявок,
	// принятых в одну и ту же секунду
	code := fmt.Sprintf("CR-%s-%s", now.Format("20060102-150405"), uuid.NewString()[:4])

	startAt, err := combine(in.StartDate, in.Time)
	if err != nil {
		return nil, err
	}
	endAt, err := combine(in.EndDate, in.Time)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("%s (%s)", in.Name, code)
	pin, pwdID, raw, err := s.lock.CreatePasscode(ctx, label, startAt, endAt)
	if err != nil {
		return nil, fmt.Errorf("create passcode: %w", err)
	}

	rec := &models.Reservation{
		Code:          code,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Time:          in.Time,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Passcode:      pin,
		KeyboardPwdID: pwdID,
		Price:         in.Price,
		PaymentStatus: models.PaymentStatusPaid,
		LockMeta:      datatypes.JSON(raw),
		CreatedAt:     now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		// код у производителя уже выдан и провисит до конца окна;
		// здесь его не отзываем
		return nil, fmt.Errorf("persist reservation: %w", err)
	}

	// письмо не должно влиять на ответ: бронь уже записана, код выдан
	go s.notify(rec)

	return &ReserveResult{Code: code, Pin: pin}, nil
}

func (s *Service) notify(rec *models.Reservation) {
	pdf, err := s.invoice.Render(rec)
	if err != nil {
		logs.Logger.Errorf("reservation %s: invoice render failed: %v", rec.Code, err)
		return
	}
	subject := fmt.Sprintf("Your cart reservation %s", rec.Code)
	body := mailBody(rec)
	name := fmt.Sprintf("invoice-%s.pdf", rec.Code)
	if err := s.mailer.Send(rec.Email, subject, body, name, pdf, "application/pdf"); err != nil {
		logs.Logger.Errorf("reservation %s: mail to %s failed: %v", rec.Code, rec.Email, err)
	}
}

func mailBody(rec *models.Reservation) string {
	return fmt.Sprintf(`<h2>Reservation confirmed</h2>
<p>Hello %s,</p>
<p>Your cart is reserved from <b>%s</b> to <b>%s</b> (pickup/return at %s).</p>
<p>Lock code: <b>%s</b></p>
<p>Reservation code: %s</p>
<p>The invoice is attached.</p>`,
		rec.Name, rec.StartDate, rec.EndDate, rec.Time, rec.Passcode, rec.Code)
}

// combine склеивает дату и время суток в локальный момент времени.
func combine(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}
