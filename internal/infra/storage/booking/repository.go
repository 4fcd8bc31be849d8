package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"consultant_id",
	"consultation_date",
	"time_slot",
	"duration_minutes",
	"first_name",
	"last_name",
	"email",
	"phone",
	"company",
	"website",
	"billing",
	"amount",
	"currency",
	"booking_status",
	"payment_status",
	"payment_reference",
	"terms_accepted",
	"cancellation_reason",
	"metadata",
	"created_at",
	"updated_at",
	"paid_at",
	"cancelled_at",
	"completed_at",
}

// sortColumns белый список колонок сортировки
var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt:        "created_at",
	domain.SortByConsultationDate: "consultation_date",
	domain.SortByAmount:           "amount",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование в статусе, переданном в booking
// Единственность активной брони на слот обеспечивает частичный уникальный индекс:
// из нескольких конкурентных вставок на один слот БД примет ровно одну, остальные получат ErrSlotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	billing, err := encodeJSON(booking.Billing)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - billing: %v", ErrEncode, err)
	}
	metadata, err := encodeJSON(booking.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - metadata: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(
			booking.ID,
			booking.ConsultantID,
			booking.ConsultationDate,
			booking.TimeSlot,
			booking.DurationMinutes,
			booking.Contact.FirstName,
			booking.Contact.LastName,
			booking.Contact.Email,
			booking.Contact.Phone,
			booking.Contact.Company,
			booking.Contact.Website,
			billing,
			booking.Amount,
			booking.Currency,
			booking.BookingStatus,
			booking.PaymentStatus,
			booking.PaymentReference,
			booking.TermsAccepted,
			booking.CancellationReason,
			metadata,
			booking.CreatedAt,
			booking.UpdatedAt,
			booking.PaidAt,
			booking.CancelledAt,
			booking.CompletedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isActiveSlotViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlotTaken, booking.Key())
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepresentation(err) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetTakenSlots возвращает слоты консультанта на дату, занятые активными бронями
func (r *Repository) GetTakenSlots(ctx context.Context, consultantID string, date time.Time) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time_slot").
		From(table).
		Where(squirrel.Eq{
			"consultant_id":     consultantID,
			"consultation_date": date,
			"booking_status":    activeStatuses(),
		}).
		OrderBy("time_slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTakenSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTakenSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]string, 0)
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("%w: GetTakenSlots - scan time_slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetTakenSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Search ищет бронирования по фильтру с пагинацией и сортировкой
// Total считается отдельным запросом по тому же фильтру
func (r *Repository) Search(
	ctx context.Context,
	filter domain.BookingsFilter,
	page domain.Pagination,
	sort domain.Sort,
) (*domain.BookingsPage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	where := buildFilter(filter)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%w: Search - scan count: %v", ErrScanRow, err)
	}

	result := &domain.BookingsPage{Bookings: make([]*domain.Booking, 0), Total: total}
	if total == 0 {
		return result, nil
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = sortColumns[domain.DefaultSort.Field]
	}
	order := "DESC"
	if sort.Order == domain.SortAsc {
		order = "ASC"
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy(fmt.Sprintf("%s %s", column, order), "id ASC").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Search - scan row: %v", ErrScanRow, err)
		}
		result.Bookings = append(result.Bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Search - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpdateBilling сохраняет платежные реквизиты; отменённые брони не обновляются
func (r *Repository) UpdateBilling(ctx context.Context, id string, billing *domain.Billing, updatedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	encoded, err := encodeJSON(billing)
	if err != nil {
		return fmt.Errorf("%w: UpdateBilling - billing: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("billing", encoded).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"booking_status": domain.BookingStatusCancelled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateBilling - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateBilling", query, args)
}

// UpdateState применяет переход жизненного цикла условной записью:
// строка обновляется, только если её booking_status и payment_status совпадают с ожидаемыми
func (r *Repository) UpdateState(ctx context.Context, id string, change domain.StateChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("booking_status", change.BookingStatus).
		Set("payment_status", change.PaymentStatus).
		Set("updated_at", change.UpdatedAt)

	if change.PaymentReference != nil {
		updateBuilder = updateBuilder.Set("payment_reference", *change.PaymentReference)
	}
	if change.CancellationReason != nil {
		updateBuilder = updateBuilder.Set("cancellation_reason", *change.CancellationReason)
	}
	if change.PaidAt != nil {
		updateBuilder = updateBuilder.Set("paid_at", *change.PaidAt)
	}
	if change.CancelledAt != nil {
		updateBuilder = updateBuilder.Set("cancelled_at", *change.CancelledAt)
	}
	if change.CompletedAt != nil {
		updateBuilder = updateBuilder.Set("completed_at", *change.CompletedAt)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{
			"id":             id,
			"booking_status": change.ExpectedBookingStatus,
			"payment_status": change.ExpectedPaymentStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateState", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isActiveSlotViolation(err) {
			return fmt.Errorf("%w: %s", ErrSlotTaken, op)
		}
		if isInvalidTextRepresentation(err) {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, op)
		}
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStateConflict
	}

	return nil
}

func buildFilter(filter domain.BookingsFilter) squirrel.And {
	where := squirrel.And{}

	if filter.ConsultantID != nil {
		where = append(where, squirrel.Eq{"consultant_id": *filter.ConsultantID})
	}
	if filter.BookingStatus != nil {
		where = append(where, squirrel.Eq{"booking_status": *filter.BookingStatus})
	}
	if filter.PaymentStatus != nil {
		where = append(where, squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.Email != nil {
		where = append(where, squirrel.Expr("LOWER(email) = LOWER(?)", *filter.Email))
	}
	if filter.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"consultation_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		where = append(where, squirrel.LtOrEq{"consultation_date": *filter.DateTo})
	}

	return where
}

func activeStatuses() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

func isActiveSlotViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == ActiveSlotConstraint
}

func isInvalidTextRepresentation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgInvalidTextRepresentation
}

// encodeJSON сериализует значение для JSONB-колонки; пустые значения пишутся как NULL
// Строка, а не []byte: lib/pq передаёт []byte как bytea
func encodeJSON(v interface{}) (sql.NullString, error) {
	switch val := v.(type) {
	case *domain.Billing:
		if val == nil {
			return sql.NullString{}, nil
		}
	case map[string]string:
		if len(val) == 0 {
			return sql.NullString{}, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking порядок полей совпадает с columns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                                         domain.Booking
		billing, metadata                         []byte
		paidAt, cancelledAt, completedAt          sql.NullTime
		company, website, reference, cancellation sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.ConsultantID,
		&b.ConsultationDate,
		&b.TimeSlot,
		&b.DurationMinutes,
		&b.Contact.FirstName,
		&b.Contact.LastName,
		&b.Contact.Email,
		&b.Contact.Phone,
		&company,
		&website,
		&billing,
		&b.Amount,
		&b.Currency,
		&b.BookingStatus,
		&b.PaymentStatus,
		&reference,
		&b.TermsAccepted,
		&cancellation,
		&metadata,
		&b.CreatedAt,
		&b.UpdatedAt,
		&paidAt,
		&cancelledAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ConsultationDate = domain.DateOnly(b.ConsultationDate)
	b.Contact.Company = nullString(company)
	b.Contact.Website = nullString(website)
	b.PaymentReference = nullString(reference)
	b.CancellationReason = nullString(cancellation)
	b.PaidAt = nullTime(paidAt)
	b.CancelledAt = nullTime(cancelledAt)
	b.CompletedAt = nullTime(completedAt)

	if len(billing) > 0 {
		b.Billing = &domain.Billing{}
		if err := json.Unmarshal(billing, b.Billing); err != nil {
			return nil, fmt.Errorf("decode billing: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &b.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return &b, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
