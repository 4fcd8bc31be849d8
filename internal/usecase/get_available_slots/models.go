package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ConsultantID string    `json:"consultantId" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`               // календарная дата
	Timezone     string    `json:"timezone" validate:"omitempty,timezone"` // IANA, пусто - бизнес-таймзона из конфигурации
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ConsultantID string
	Date         time.Time
	Slots        []string // свободные слоты в порядке шаблона
	DefaultSlots []string // весь шаблон
}
