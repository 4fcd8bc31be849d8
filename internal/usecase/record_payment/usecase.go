package record_payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/consultation-booking/internal/domain"
	bookingRepo "github.com/m04kA/consultation-booking/internal/infra/storage/booking"
)

var tracer = otel.Tracer("github.com/m04kA/consultation-booking/internal/usecase/record_payment")

// UseCase use case для записи результата оплаты
// Идемпотентен по паре (booking_id, payment_reference): ключ фиксируется в той же транзакции,
// что и изменение брони, повторная доставка ничего не меняет и не шлёт уведомлений
type UseCase struct {
	bookingRepo  BookingRepository
	eventRepo    PaymentEventRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	eventRepo PaymentEventRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case записи результата оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "RecordPayment", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", req.BookingID),
		attribute.String("payment.outcome", string(req.Outcome)),
		attribute.String("payment.reference", req.PaymentReference),
	)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("payment.applied", resp.Applied),
		attribute.Bool("payment.replayed", resp.Replayed),
		attribute.String("booking.status", string(resp.Booking.BookingStatus)),
	)

	if uc.metrics != nil {
		uc.metrics.IncPaymentResult(string(req.Outcome), resp.Applied)
		if resp.Applied && resp.Booking.BookingStatus == domain.BookingStatusConfirmed {
			uc.metrics.IncBookingTransition(string(domain.BookingStatusConfirmed))
		}
	}

	// Уведомление только если подтверждение применил именно этот вызов
	if resp.Applied && resp.Booking.BookingStatus == domain.BookingStatusConfirmed && uc.notifier != nil {
		uc.notifier.BookingConfirmed(resp.Booking)
	}

	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecordPayment: booking=%s, outcome=%s, reference=%s",
		req.BookingID, req.Outcome, req.PaymentReference)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordPayment: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	// 2. Блокируем бронь, проверяем ключ идемпотентности и применяем переход в одной транзакции
	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}

		processed, err := uc.eventRepo.IsProcessed(ctx, req.BookingID, req.PaymentReference)
		if err != nil {
			return fmt.Errorf("%w: failed to check payment event: %v", ErrInternal, err)
		}
		if processed {
			uc.logger.Info("RecordPayment: reference=%s for booking=%s already processed, returning current state",
				req.PaymentReference, req.BookingID)
			resp = &Response{Booking: booking, Replayed: true}
			return nil
		}

		now := uc.timeProvider.Now().UTC()
		applied := false

		change, err := transitionFor(booking, req, now)
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			// Бронь уже подтверждена или в конечном статусе: результат только фиксируется
			uc.logger.Info("RecordPayment: booking=%s is %s/%s, outcome=%s ignored",
				booking.ID, booking.BookingStatus, booking.PaymentStatus, req.Outcome)
		case err != nil:
			return err
		default:
			if err := uc.bookingRepo.UpdateState(ctx, booking.ID, change); err != nil {
				return err
			}
			booking.Apply(change)
			applied = true
		}

		// 3. Ключ идемпотентности расходует только итоговый результат
		if req.Outcome.IsFinal() {
			inserted, err := uc.eventRepo.MarkProcessed(ctx, domain.PaymentEvent{
				BookingID:  booking.ID,
				Reference:  req.PaymentReference,
				Outcome:    req.Outcome,
				Applied:    applied,
				ReceivedAt: now,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to record payment event: %v", ErrInternal, err)
			}
			if !inserted {
				return errAlreadyProcessed
			}
		}

		resp = &Response{Booking: booking, Applied: applied}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, errAlreadyProcessed):
		// Параллельный запрос с тем же ключом успел раньше; его изменения уже зафиксированы
		booking, getErr := uc.bookingRepo.GetByID(ctx, req.BookingID)
		if getErr != nil {
			uc.logger.Error("RecordPayment: failed to reload booking=%s: %v", req.BookingID, getErr)
			return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, getErr)
		}
		resp = &Response{Booking: booking, Replayed: true}
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		uc.logger.Warn("RecordPayment: booking id=%s not found", req.BookingID)
		return nil, ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStateConflict):
		uc.logger.Warn("RecordPayment: booking id=%s changed concurrently", req.BookingID)
		return nil, ErrConcurrentUpdate
	case errors.Is(err, ErrInternal):
		uc.logger.Error("RecordPayment: %v", err)
		return nil, err
	default:
		uc.logger.Error("RecordPayment: failed to record payment for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("RecordPayment: booking=%s is now %s/%s (applied=%t, replayed=%t)",
		resp.Booking.ID, resp.Booking.BookingStatus, resp.Booking.PaymentStatus, resp.Applied, resp.Replayed)

	return resp, nil
}

// transitionFor переход жизненного цикла для результата оплаты
func transitionFor(b *domain.Booking, req *Request, now time.Time) (domain.StateChange, error) {
	switch req.Outcome {
	case domain.PaymentOutcomeSuccess:
		return b.Confirm(now, req.PaymentReference)
	case domain.PaymentOutcomeFailure:
		return b.FailPayment(now, req.PaymentReference)
	case domain.PaymentOutcomeProcessing:
		return b.StartPaymentProcessing(now, req.PaymentReference)
	default:
		return domain.StateChange{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, req.Outcome)
	}
}
