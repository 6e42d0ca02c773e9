package booking

import (
	"context"
	"sync"
	"time"

	domain "github.com/playgolfspainnow/chat-api/internal/domain/booking"
)

// MemoryRepository keeps the booking mirror in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings []domain.Booking
}

// NewMemoryRepository builds an empty in-memory booking mirror.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

var _ domain.Repository = (*MemoryRepository)(nil)

// Create stores the booking.
func (r *MemoryRepository) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	r.bookings = append(r.bookings, *b)
	return nil
}

// All returns a snapshot of the stored bookings.
func (r *MemoryRepository) All() []domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}
