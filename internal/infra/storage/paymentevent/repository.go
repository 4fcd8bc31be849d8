package paymentevent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking/pkg/psqlbuilder"
)

const table = "booking_payment_events"

// Repository журнал обработанных результатов оплаты
// Первичный ключ (booking_id, payment_reference) делает повторную доставку безопасной
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// IsProcessed проверяет, обрабатывался ли уже результат с этим reference
func (r *Repository) IsProcessed(ctx context.Context, bookingID, reference string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"booking_id": bookingID, "payment_reference": reference}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsProcessed - build select query: %v", ErrBuildQuery, err)
	}

	var exists int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: IsProcessed - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// MarkProcessed записывает событие; false, если оно уже было записано
func (r *Repository) MarkProcessed(ctx context.Context, event domain.PaymentEvent) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("booking_id", "payment_reference", "outcome", "applied", "received_at").
		Values(event.BookingID, event.Reference, event.Outcome, event.Applied, event.ReceivedAt).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
