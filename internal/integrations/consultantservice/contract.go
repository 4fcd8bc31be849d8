package consultantservice

import (
	"context"

	"github.com/m04kA/consultation-booking/internal/domain"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Directory источник данных о консультантах
type Directory interface {
	GetConsultant(ctx context.Context, id string) (*domain.Consultant, error)
}
