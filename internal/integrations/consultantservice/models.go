package consultantservice

import "github.com/m04kA/consultation-booking/internal/domain"

// Consultant модель консультанта из справочника
type Consultant struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	IsVerified bool   `json:"is_verified"`
}

func (c Consultant) toDomain() *domain.Consultant {
	return &domain.Consultant{
		ID:         c.ID,
		Status:     domain.ConsultantStatus(c.Status),
		IsVerified: c.IsVerified,
	}
}

func fromDomain(c *domain.Consultant) Consultant {
	return Consultant{ID: c.ID, Status: string(c.Status), IsVerified: c.IsVerified}
}
