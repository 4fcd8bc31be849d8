package booking

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking/internal/domain"
	"github.com/m04kA/consultation-booking/pkg/dbmetrics"
	"github.com/m04kA/consultation-booking/pkg/ptr"
)

var (
	testDate    = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	testCreated = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *dbmetrics.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	return NewRepository(db), mock, db
}

func newBooking() *domain.Booking {
	return &domain.Booking{
		ID:               "b-1",
		ConsultantID:     "c-1",
		ConsultationDate: testDate,
		TimeSlot:         "10:00",
		DurationMinutes:  30,
		Contact: domain.Contact{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+4915112345678",
			Company:   ptr.Ptr("Analytical Engines"),
		},
		Amount:        decimal.RequireFromString("30.00"),
		Currency:      "EUR",
		BookingStatus: domain.BookingStatusPendingPayment,
		PaymentStatus: domain.PaymentStatusPending,
		TermsAccepted: true,
		Metadata:      map[string]string{"source": "web"},
		CreatedAt:     testCreated,
		UpdatedAt:     testCreated,
	}
}

func bookingRow(id string, billing []byte) []driver.Value {
	return []driver.Value{
		id, "c-1", testDate, "10:00", int64(30),
		"Ada", "Lovelace", "ada@example.com", "+4915112345678", "Analytical Engines", nil,
		billing, "30.00", "EUR", "PENDING_PAYMENT", "PENDING", nil, true, nil,
		[]byte(`{"source":"web"}`), testCreated, testCreated, nil, nil, nil,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), newBooking())
	require.NoError(t, err)
	assert.Equal(t, "b-1", created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ActiveSlotViolation(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: ActiveSlotConstraint})

	_, err := repo.Create(context.Background(), newBooking())
	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherUniqueViolationIsNotSlotTaken(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_pkey"})

	_, err := repo.Create(context.Background(), newBooking())
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`})

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NotErrorIs(t, err, ErrScanRow)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ScansJSONColumns(t *testing.T) {
	repo, mock, _ := newRepo(t)

	billing := []byte(`{"firstName":"Ada","lastName":"Lovelace","addressLine1":"1 Main St","postalCode":"10115","city":"Berlin","country":"DE"}`)
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(bookingRow("b-1", billing)...))

	b, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusPendingPayment, b.BookingStatus)
	assert.Equal(t, domain.PaymentStatusPending, b.PaymentStatus)
	assert.True(t, decimal.RequireFromString("30").Equal(b.Amount))
	assert.Equal(t, "Analytical Engines", *b.Contact.Company)
	assert.Nil(t, b.Contact.Website)
	require.NotNil(t, b.Billing)
	assert.Equal(t, "Berlin", b.Billing.City)
	assert.Equal(t, "web", b.Metadata["source"])
	assert.Nil(t, b.PaidAt)
}

func TestGetByID_LocksRowInTransaction(t *testing.T) {
	repo, mock, db := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(bookingRow("b-1", nil)...))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	b, err := repo.GetByID(dbmetrics.WithTx(context.Background(), tx), "b-1")
	require.NoError(t, err)
	assert.Nil(t, b.Billing)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTakenSlots(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`SELECT time_slot FROM bookings WHERE booking_status IN \(\$1,\$2\) AND consultant_id = \$3 AND consultation_date = \$4`).
		WithArgs("PENDING_PAYMENT", "CONFIRMED", "c-1", testDate).
		WillReturnRows(sqlmock.NewRows([]string{"time_slot"}).AddRow("14:00"))

	slots, err := repo.GetTakenSlots(context.Background(), "c-1", testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00"}, slots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_CountsAndPages(t *testing.T) {
	repo, mock, _ := newRepo(t)

	filter := domain.BookingsFilter{
		ConsultantID:  ptr.Ptr("c-1"),
		BookingStatus: ptr.Ptr(domain.BookingStatusPendingPayment),
		Email:         ptr.Ptr("ADA@example.com"),
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE \(consultant_id = \$1 AND booking_status = \$2 AND LOWER\(email\) = LOWER\(\$3\)\)`).
		WithArgs("c-1", domain.BookingStatusPendingPayment, "ADA@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE (.+) ORDER BY consultation_date ASC, id ASC LIMIT 2 OFFSET 2`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(bookingRow("b-3", nil)...))

	page, err := repo.Search(context.Background(), filter,
		domain.Pagination{Page: 2, PageSize: 2},
		domain.Sort{Field: domain.SortByConsultationDate, Order: domain.SortAsc})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Bookings, 1)
	assert.Equal(t, "b-3", page.Bookings[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_EmptySkipsSelect(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	page, err := repo.Search(context.Background(), domain.BookingsFilter{},
		domain.Pagination{Page: 1, PageSize: 20}, domain.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Bookings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateState_CompareAndSet(t *testing.T) {
	repo, mock, _ := newRepo(t)

	b := newBooking()
	now := time.Date(2025, 10, 10, 8, 0, 0, 0, time.UTC)
	change, err := b.Confirm(now, "ref-1")
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE bookings SET booking_status = \$1, payment_status = \$2, updated_at = \$3, payment_reference = \$4, paid_at = \$5 WHERE booking_status = \$6 AND id = \$7 AND payment_status = \$8`).
		WithArgs(domain.BookingStatusConfirmed, domain.PaymentStatusCompleted, now, "ref-1", now,
			domain.BookingStatusPendingPayment, "b-1", domain.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateState(context.Background(), "b-1", change))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateState_LostRace(t *testing.T) {
	repo, mock, _ := newRepo(t)

	change, err := newBooking().Cancel(time.Now(), "")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateState(context.Background(), "b-1", change)
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestUpdateState_MalformedIDIsNotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	change, err := newBooking().Cancel(time.Now(), "")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE bookings").WillReturnError(&pq.Error{Code: "22P02"})

	err = repo.UpdateState(context.Background(), "not-a-uuid", change)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NotErrorIs(t, err, ErrExecQuery)
}

func TestUpdateBilling_SkipsCancelled(t *testing.T) {
	repo, mock, _ := newRepo(t)

	billing := &domain.Billing{FirstName: "Ada", LastName: "Lovelace", AddressLine1: "1 Main St", PostalCode: "10115", City: "Berlin", Country: "DE"}

	mock.ExpectExec(`UPDATE bookings SET billing = \$1, updated_at = \$2 WHERE id = \$3 AND booking_status <> \$4`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateBilling(context.Background(), "b-1", billing, time.Now())
	assert.ErrorIs(t, err, ErrStateConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ExecError(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("INSERT INTO bookings").WillReturnError(errors.New("connection refused"))

	_, err := repo.Create(context.Background(), newBooking())
	assert.ErrorIs(t, err, ErrExecQuery)
}
