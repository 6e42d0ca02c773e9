package entities

import (
	"time"

	"github.com/playgolfspainnow/chat-api/internal/domain/booking"
)

// Booking mirrors a confirmed provider booking for local reporting. The
// provider record is authoritative; this row is best-effort.
type Booking struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	CourseID           string  `gorm:"type:varchar(64);index;not null"`
	CourseName         string  `gorm:"type:varchar(256);not null"`
	PlayDate           string  `gorm:"type:varchar(10);not null"`
	TeeTime            string  `gorm:"type:varchar(5);not null"`
	PlayerCount        int     `gorm:"not null"`
	UserName           string  `gorm:"type:varchar(256);not null"`
	UserEmail          string  `gorm:"type:varchar(256);index;not null"`
	ConfirmationNumber string  `gorm:"type:varchar(32);uniqueIndex;not null"`
	TotalPrice         float64 `gorm:"not null"`
	Currency           string  `gorm:"type:varchar(3);not null"`
	Status             string  `gorm:"type:varchar(20);not null"`
}

// TableName specifies the table name for Booking.
func (Booking) TableName() string {
	return "bookings"
}

// NewSchemaBooking creates a database entity from domain model.
func NewSchemaBooking(b *booking.Booking) *Booking {
	return &Booking{
		CourseID:           b.CourseID,
		CourseName:         b.CourseName,
		PlayDate:           b.PlayDate,
		TeeTime:            b.TeeTime,
		PlayerCount:        b.PlayerCount,
		UserName:           b.UserName,
		UserEmail:          b.UserEmail,
		ConfirmationNumber: b.ConfirmationNumber,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Status:             b.Status,
	}
}
