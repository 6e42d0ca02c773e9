package booking

import (
	"context"
	"time"
)

// Booking mirrors a provider-side tee-time reservation for record keeping.
// The provider owns the booking; this record is written fire-and-forget
// after a confirmed booking and its failure never rolls the booking back.
type Booking struct {
	ID                 uint      `json:"-"`
	CourseID           string    `json:"course_id"`
	CourseName         string    `json:"course_name"`
	PlayDate           string    `json:"play_date"`
	TeeTime            string    `json:"tee_time"`
	PlayerCount        int       `json:"player_count"`
	UserName           string    `json:"user_name"`
	UserEmail          string    `json:"user_email"`
	ConfirmationNumber string    `json:"confirmation_number"`
	TotalPrice         float64   `json:"total_price"`
	Currency           string    `json:"currency"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// Repository persists the local booking mirror.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
}
