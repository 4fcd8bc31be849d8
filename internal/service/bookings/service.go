package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/consultation-booking/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking/internal/infra/storage/booking"
	"github.com/m04kA/consultation-booking/internal/service/bookings/models"
	"github.com/m04kA/consultation-booking/pkg/validator"
)

var requestValidator = validator.NewValidator()

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// Search ищет бронирования по фильтрам с пагинацией и сортировкой
func (s *Service) Search(ctx context.Context, req *models.SearchBookingsRequest) (*models.BookingListResponse, error) {
	filter, page, sort, err := toDomainQuery(req)
	if err != nil {
		s.logger.Warn("Search: invalid query: %v", err)
		return nil, err
	}

	s.logger.Info("Search: page=%d, pageSize=%d, sort=%s %s", page.Page, page.PageSize, sort.Field, sort.Order)

	var result *domain.BookingsPage
	err = s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.bookingRepo.Search(ctx, filter, page, sort)
		return err
	})
	if err != nil {
		s.logger.Error("Search: repository error: %v", err)
		return nil, fmt.Errorf("%w: Search - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Search: found %d bookings, returning %d", result.Total, len(result.Bookings))
	return models.FromDomainBookingsPage(result, page), nil
}

// UpdateBilling сохраняет платежные реквизиты
// Реквизиты можно менять у любой брони, кроме отменённой
func (s *Service) UpdateBilling(ctx context.Context, id string, req *models.UpdateBillingRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateBilling: updating billing for booking id=%s", id)

	if err := requestValidator.Validate(req); err != nil {
		if v, ok := validator.FirstViolation(err); ok {
			err = invalid("billing."+v.Field, v.Reason)
		} else {
			err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Warn("UpdateBilling: validation failed for booking id=%s: %v", id, err)
		return nil, err
	}
	billing := req.ToDomain()

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "UpdateBilling", id)
		if err != nil {
			return err
		}
		if booking.BookingStatus == domain.BookingStatusCancelled {
			s.logger.Warn("UpdateBilling: booking id=%s is cancelled", id)
			return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.BookingStatus)
		}

		now := s.timeProvider.Now().UTC()
		if err := s.bookingRepo.UpdateBilling(ctx, id, billing, now); err != nil {
			return s.translateWriteError("UpdateBilling", id, err)
		}

		booking.Billing = billing
		booking.UpdatedAt = now
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateBilling: successfully updated billing for booking id=%s", id)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование и сразу освобождает слот
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s (operator=%t)", id, req.Operator)

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, invalid("reason", fmt.Sprintf("must be at most %d characters", domain.MaxCancellationReasonLength))
	}
	if !req.Operator && strings.TrimSpace(req.Email) == "" {
		return nil, invalid("email", "is required")
	}

	return s.transition(ctx, "Cancel", id, func(b *domain.Booking) (domain.StateChange, error) {
		if !req.Operator && !strings.EqualFold(b.Contact.Email, strings.TrimSpace(req.Email)) {
			s.logger.Warn("Cancel: email does not match booking id=%s", id)
			return domain.StateChange{}, ErrAccessDenied
		}
		return b.Cancel(s.timeProvider.Now().UTC(), reason)
	})
}

// UpdateStatus фиксирует итог консультации: COMPLETED или NO_SHOW
func (s *Service) UpdateStatus(ctx context.Context, id string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s", id, req.Status)

	status := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case domain.BookingStatusCompleted:
		return s.transition(ctx, "UpdateStatus", id, func(b *domain.Booking) (domain.StateChange, error) {
			return b.Complete(s.timeProvider.Now().UTC())
		})
	case domain.BookingStatusNoShow:
		return s.transition(ctx, "UpdateStatus", id, func(b *domain.Booking) (domain.StateChange, error) {
			return b.MarkNoShow(s.timeProvider.Now().UTC())
		})
	default:
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, id)
		return nil, invalid("status", "must be COMPLETED or NO_SHOW")
	}
}

// transition блокирует бронь, применяет переход и пишет его условным обновлением
func (s *Service) transition(
	ctx context.Context,
	op string,
	id string,
	next func(b *domain.Booking) (domain.StateChange, error),
) (*models.BookingResponse, error) {
	var updated *domain.Booking

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, op, id)
		if err != nil {
			return err
		}

		change, err := next(booking)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				s.logger.Warn("%s: booking id=%s: %v", op, id, err)
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			return err
		}

		if err := s.bookingRepo.UpdateState(ctx, id, change); err != nil {
			return s.translateWriteError(op, id, err)
		}

		booking.Apply(change)
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncBookingTransition(string(updated.BookingStatus))
	}

	s.logger.Info("%s: booking id=%s is now %s/%s", op, id, updated.BookingStatus, updated.PaymentStatus)
	return models.FromDomainBooking(updated), nil
}

func (s *Service) getBooking(ctx context.Context, op, id string) (*domain.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("bookingId", "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("%s: malformed booking id=%q", op, id)
		return nil, ErrBookingNotFound
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) translateWriteError(op, id string, err error) error {
	if errors.Is(err, bookingRepo.ErrStateConflict) {
		s.logger.Warn("%s: booking id=%s changed concurrently", op, id)
		return ErrConcurrentUpdate
	}
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
