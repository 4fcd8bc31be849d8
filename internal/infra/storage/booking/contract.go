package booking

import (
	"github.com/m04kA/consultation-booking/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// ActiveSlotConstraint имя частичного уникального индекса по ключу слота
// (consultant_id, consultation_date, time_slot) WHERE booking_status IN ('PENDING_PAYMENT', 'CONFIRMED')
const ActiveSlotConstraint = "bookings_active_slot_uidx"

// pgUniqueViolation SQLSTATE нарушения уникальности
const pgUniqueViolation = "23505"

// pgInvalidTextRepresentation SQLSTATE невалидного литерала, например id не в формате UUID
const pgInvalidTextRepresentation = "22P02"
