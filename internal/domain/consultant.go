package domain

// ConsultantStatus статус консультанта во внешнем справочнике
type ConsultantStatus string

const (
	ConsultantStatusPending   ConsultantStatus = "pending"
	ConsultantStatusKYCReview ConsultantStatus = "kyc_review"
	ConsultantStatusActive    ConsultantStatus = "active"
	ConsultantStatusSuspended ConsultantStatus = "suspended"
	ConsultantStatusArchived  ConsultantStatus = "archived"
)

// Consultant данные консультанта, нужные для бронирования (только чтение)
type Consultant struct {
	ID         string
	Status     ConsultantStatus
	IsVerified bool
}

// IsBookable к консультанту можно записаться только если он активен и верифицирован
func (c *Consultant) IsBookable() bool {
	return c != nil && c.Status == ConsultantStatusActive && c.IsVerified
}
