package booking

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/playgolfspainnow/chat-api/internal/domain/booking"
	"github.com/playgolfspainnow/chat-api/internal/infrastructure/database/entities"
)

// Repository mirrors confirmed bookings in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a booking repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts the booking record.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) error {
	entity := entities.NewSchemaBooking(b)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	b.CreatedAt = entity.CreatedAt
	return nil
}
