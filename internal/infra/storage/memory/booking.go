package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/consultation-booking/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking/internal/infra/storage/booking"
)

// BookingRepository хранилище бронирований в памяти процесса
// Повторяет гарантии Postgres-репозитория: одна активная бронь на слот и условные переходы.
// Подходит только для одного экземпляра сервиса (разработка, тесты)
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	active   map[string]string // ключ слота -> id активной брони
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[string]*domain.Booking),
		active:   make(map[string]string),
	}
}

func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingRepo.ErrExecQuery, booking.ID)
	}

	key := booking.Key().String()
	if booking.IsActive() {
		if _, taken := r.active[key]; taken {
			return nil, fmt.Errorf("%w: %s", bookingRepo.ErrSlotTaken, key)
		}
		r.active[key] = booking.ID
	}

	r.bookings[booking.ID] = booking.Clone()
	return booking, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepository) GetTakenSlots(_ context.Context, consultantID string, date time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]string, 0)
	for _, b := range r.bookings {
		if b.IsActive() && b.ConsultantID == consultantID && b.ConsultationDate.Equal(date) {
			slots = append(slots, b.TimeSlot)
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (r *BookingRepository) Search(
	_ context.Context,
	filter domain.BookingsFilter,
	page domain.Pagination,
	order domain.Sort,
) (*domain.BookingsPage, error) {
	r.mu.RLock()
	matched := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if matches(b, filter) {
			matched = append(matched, b.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		cmp := compare(matched[i], matched[j], order.Field)
		if cmp == 0 {
			return matched[i].ID < matched[j].ID
		}
		if order.Order == domain.SortAsc {
			return cmp < 0
		}
		return cmp > 0
	})

	result := &domain.BookingsPage{Bookings: make([]*domain.Booking, 0), Total: len(matched)}

	start := page.Offset()
	if start < 0 || start >= len(matched) {
		return result, nil
	}
	end := start + page.PageSize
	if end > len(matched) || end < start {
		end = len(matched)
	}
	result.Bookings = matched[start:end]
	return result, nil
}

func (r *BookingRepository) UpdateBilling(_ context.Context, id string, billing *domain.Billing, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.BookingStatus == domain.BookingStatusCancelled {
		return bookingRepo.ErrStateConflict
	}

	updated := b.Clone()
	updated.Billing = billing.Clone()
	updated.UpdatedAt = updatedAt
	r.bookings[id] = updated
	return nil
}

func (r *BookingRepository) UpdateState(_ context.Context, id string, change domain.StateChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok ||
		b.BookingStatus != change.ExpectedBookingStatus ||
		b.PaymentStatus != change.ExpectedPaymentStatus {
		return bookingRepo.ErrStateConflict
	}

	key := b.Key().String()
	if !b.IsActive() && change.BookingStatus.IsActive() {
		if _, taken := r.active[key]; taken {
			return fmt.Errorf("%w: %s", bookingRepo.ErrSlotTaken, key)
		}
	}

	updated := b.Clone()
	updated.Apply(change)
	r.bookings[id] = updated

	if updated.IsActive() {
		r.active[key] = id
	} else if r.active[key] == id {
		delete(r.active, key)
	}

	return nil
}

func matches(b *domain.Booking, f domain.BookingsFilter) bool {
	if f.ConsultantID != nil && b.ConsultantID != *f.ConsultantID {
		return false
	}
	if f.BookingStatus != nil && b.BookingStatus != *f.BookingStatus {
		return false
	}
	if f.PaymentStatus != nil && b.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.Email != nil && !strings.EqualFold(b.Contact.Email, *f.Email) {
		return false
	}
	if f.DateFrom != nil && b.ConsultationDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && b.ConsultationDate.After(*f.DateTo) {
		return false
	}
	return true
}

func compare(a, b *domain.Booking, field domain.SortField) int {
	switch field {
	case domain.SortByConsultationDate:
		return a.ConsultationDate.Compare(b.ConsultationDate)
	case domain.SortByAmount:
		return a.Amount.Cmp(b.Amount)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
