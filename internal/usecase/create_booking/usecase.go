package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/consultation-booking/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking/internal/infra/storage/booking"
	consultantClient "github.com/m04kA/consultation-booking/internal/integrations/consultantservice"
)

var tracer = otel.Tracer("github.com/m04kA/consultation-booking/internal/usecase/create_booking")

// UseCase use case для создания бронирования
// Проверка свободного слота перед вставкой только ускоряет отказ; единственность активной брони
// на слот гарантирует уникальный индекс хранилища
type UseCase struct {
	bookingRepo  BookingRepository
	consultants  ConsultantDirectory
	notifier     Notifier
	metrics      Metrics
	template     domain.SlotTemplate
	newID        IDGenerator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	consultants ConsultantDirectory,
	notifier Notifier,
	metrics Metrics,
	template domain.SlotTemplate,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		consultants:  consultants,
		notifier:     notifier,
		metrics:      metrics,
		template:     template,
		newID:        func() string { return uuid.New().String() },
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer span.End()
	span.SetAttributes(
		attribute.String("consultant.id", req.ConsultantID),
		attribute.String("booking.date", req.Date.Format(domain.DateFormat)),
		attribute.String("booking.time_slot", req.TimeSlot),
	)

	resp, result, err := uc.execute(ctx, req)
	uc.incCreated(result)
	span.SetAttributes(attribute.String("booking.result", result))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("booking.id", resp.BookingID))
	if uc.notifier != nil {
		uc.notifier.BookingCreated(resp.Booking)
	}
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, string, error) {
	uc.logger.Info("CreateBooking: consultant=%s, date=%s, slot=%s",
		req.ConsultantID, req.Date.Format(domain.DateFormat), req.TimeSlot)

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	normalizeRequest(req)
	if err := validateRequest(req, uc.template, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, resultInvalid, err
	}
	date := domain.DateOnly(req.Date)

	// 2. Консультант должен быть активным и верифицированным
	consultant, err := uc.consultants.GetConsultant(ctx, req.ConsultantID)
	if err != nil {
		if errors.Is(err, consultantClient.ErrConsultantNotFound) {
			uc.logger.Warn("CreateBooking: consultant id=%s not found", req.ConsultantID)
			return nil, resultConsultantInactive, fmt.Errorf("%w: consultant %s not found", ErrConsultantUnavailable, req.ConsultantID)
		}
		uc.logger.Error("CreateBooking: failed to get consultant id=%s: %v", req.ConsultantID, err)
		return nil, resultError, fmt.Errorf("%w: failed to get consultant: %v", ErrInternal, err)
	}
	if !consultant.IsBookable() {
		uc.logger.Warn("CreateBooking: consultant id=%s is not bookable (status=%s, verified=%t)",
			req.ConsultantID, consultant.Status, consultant.IsVerified)
		return nil, resultConsultantInactive, fmt.Errorf("%w: consultant %s is %s", ErrConsultantUnavailable, req.ConsultantID, consultant.Status)
	}

	// 3. Быстрая проверка занятости слота
	taken, err := uc.bookingRepo.GetTakenSlots(ctx, req.ConsultantID, date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get taken slots: %v", err)
		return nil, resultError, fmt.Errorf("%w: failed to get taken slots: %v", ErrInternal, err)
	}
	for _, slot := range taken {
		if slot == req.TimeSlot {
			uc.logger.Info("CreateBooking: slot %s on %s already taken for consultant=%s",
				req.TimeSlot, date.Format(domain.DateFormat), req.ConsultantID)
			return nil, resultSlotTakenAdvisory, ErrSlotUnavailable
		}
	}

	// 4. Создаем бронирование; при гонке за слот уникальный индекс отклонит вторую вставку
	booking := uc.newBooking(req, date, now)

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Info("CreateBooking: slot %s on %s lost to concurrent booking for consultant=%s",
				req.TimeSlot, date.Format(domain.DateFormat), req.ConsultantID)
			return nil, resultSlotTakenConstraint, ErrSlotUnavailable
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, resultError, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created booking id=%s for consultant=%s, date=%s, slot=%s",
		created.ID, created.ConsultantID, date.Format(domain.DateFormat), created.TimeSlot)

	return &Response{BookingID: created.ID, Booking: created}, resultCreated, nil
}

func (uc *UseCase) newBooking(req *Request, date time.Time, now time.Time) *domain.Booking {
	var metadata map[string]string
	if len(req.Metadata) > 0 {
		metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			metadata[k] = v
		}
	}

	now = now.UTC()
	return &domain.Booking{
		ID:               uc.newID(),
		ConsultantID:     req.ConsultantID,
		ConsultationDate: date,
		TimeSlot:         req.TimeSlot,
		DurationMinutes:  uc.template.DurationMinutes,
		Contact: domain.Contact{
			FirstName: req.Contact.FirstName,
			LastName:  req.Contact.LastName,
			Email:     req.Contact.Email,
			Phone:     req.Contact.Phone,
			Company:   req.Contact.Company,
			Website:   req.Contact.Website,
		},
		Amount:        uc.template.Amount,
		Currency:      uc.template.Currency,
		BookingStatus: domain.BookingStatusPendingPayment,
		PaymentStatus: domain.PaymentStatusPending,
		TermsAccepted: req.TermsAccepted,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (uc *UseCase) incCreated(result string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingCreated(result)
	}
}
