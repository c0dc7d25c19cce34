package models

import (
	"time"

	"gorm.io/datatypes"
)

// Статус оплаты фиксирован: платёжный шлюз не подключён,
// бронь считается оплаченной по факту создания.
const PaymentStatusPaid = "PAID"

// DefaultTime — время заезда по умолчанию (часы:минуты).
const DefaultTime = "12:00"

// Reservation — единственная персистентная сущность: аренда тележки
// на диапазон дат включительно. Даты храним строками YYYY-MM-DD,
// их лексикографический порядок совпадает с календарным.
type Reservation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Code      string `gorm:"uniqueIndex;size:32;not null" json:"reservationCode"`
	StartDate string `gorm:"size:10;index;not null" json:"startDate"`
	EndDate   string `gorm:"size:10;index;not null" json:"endDate"`
	Time      string `gorm:"size:5" json:"time"`

	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:64"  json:"phone"`

	// Код замка и его идентификатор на стороне производителя;
	// KeyboardPwdID нужен, чтобы позже отозвать код.
	Passcode      string `gorm:"size:16" json:"passcode"`
	KeyboardPwdID string `gorm:"size:64" json:"keyboardPwdId"`

	Price         float64 `json:"price"`
	PaymentStatus string  `gorm:"size:16" json:"paymentStatus"`

	// Сырой ответ производителя при выдаче кода — для разбора инцидентов.
	// Тип колонки оставляем на выбор диалекта (jsonb в postgres, json в mysql).
	LockMeta datatypes.JSON `json:"-"`

	Archived bool `gorm:"index;default:false" json:"archived"`
}
