package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/consultation-booking/internal/domain"
	consultantClient "github.com/m04kA/consultation-booking/internal/integrations/consultantservice"
)

var tracer = otel.Tracer("github.com/m04kA/consultation-booking/internal/usecase/get_available_slots")

// UseCase use case для получения доступных слотов для бронирования
// Результат носит рекомендательный характер: занятость слота окончательно решает хранилище при создании брони
type UseCase struct {
	bookingRepo  BookingRepository
	consultants  ConsultantDirectory
	template     domain.SlotTemplate
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	consultants ConsultantDirectory,
	template domain.SlotTemplate,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		consultants:  consultants,
		template:     template,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "GetAvailableSlots")
	defer span.End()
	span.SetAttributes(
		attribute.String("consultant.id", req.ConsultantID),
		attribute.String("booking.date", req.Date.Format(domain.DateFormat)),
	)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("slots.available", len(resp.Slots)))
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: consultant=%s, date=%s, timezone=%q",
		req.ConsultantID, req.Date.Format(domain.DateFormat), req.Timezone)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	business := businessLocation(uc.template.Location)
	loc, err := resolveLocation(req.Timezone, business)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	resp := &Response{
		ConsultantID: req.ConsultantID,
		Date:         date,
		Slots:        []string{},
		DefaultSlots: uc.template.Defaults(),
	}

	// 2. Прошедшая дата: записаться нельзя
	// Бизнес-таймзона проверяется всегда, как и при создании брони
	now := uc.timeProvider.Now()
	if domain.IsPastDate(date, now, business) || domain.IsPastDate(date, now, loc) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past for timezone %s",
			date.Format(domain.DateFormat), loc)
		return resp, nil
	}

	// 3. Консультант должен существовать, быть активным и верифицированным
	consultant, err := uc.consultants.GetConsultant(ctx, req.ConsultantID)
	if err != nil {
		if errors.Is(err, consultantClient.ErrConsultantNotFound) {
			uc.logger.Info("GetAvailableSlots: consultant id=%s not found", req.ConsultantID)
			return resp, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get consultant id=%s: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to get consultant: %v", ErrInternal, err)
	}
	if !consultant.IsBookable() {
		uc.logger.Info("GetAvailableSlots: consultant id=%s is not bookable (status=%s, verified=%t)",
			req.ConsultantID, consultant.Status, consultant.IsVerified)
		return resp, nil
	}

	// 4. Занятые активными бронями слоты
	taken, err := uc.bookingRepo.GetTakenSlots(ctx, req.ConsultantID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get taken slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get taken slots: %v", ErrInternal, err)
	}

	resp.Slots = uc.template.Available(taken)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for consultant=%s, date=%s",
		len(resp.Slots), len(resp.DefaultSlots), req.ConsultantID, date.Format(domain.DateFormat))

	return resp, nil
}
