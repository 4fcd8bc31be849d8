package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotTemplate_Available(t *testing.T) {
	tpl := SlotTemplate{Slots: []string{"10:00", "14:00", "16:00"}}

	assert.Equal(t, []string{"10:00", "14:00", "16:00"}, tpl.Available(nil))
	assert.Equal(t, []string{"10:00", "16:00"}, tpl.Available([]string{"14:00"}))
	assert.Equal(t, []string{}, tpl.Available([]string{"16:00", "10:00", "14:00"}))
	// Занятые метки вне шаблона не влияют на результат
	assert.Equal(t, []string{"10:00", "14:00", "16:00"}, tpl.Available([]string{"09:00"}))
}

func TestSlotTemplate_DefaultsIsCopy(t *testing.T) {
	tpl := SlotTemplate{Slots: []string{"10:00", "14:00"}}

	defaults := tpl.Defaults()
	defaults[0] = "changed"

	assert.Equal(t, "10:00", tpl.Slots[0])
	assert.True(t, tpl.Contains("14:00"))
	assert.False(t, tpl.Contains("12:00"))
}

func TestIsPastDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 23:30 UTC 14 октября = 01:30 15 октября в Берлине
	now := time.Date(2025, 10, 14, 23, 30, 0, 0, time.UTC)
	oct14 := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	oct15 := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsPastDate(oct14, now, time.UTC))
	assert.True(t, IsPastDate(oct14, now, berlin))
	assert.False(t, IsPastDate(oct15, now, berlin))
	assert.False(t, IsPastDate(oct14, now, nil))
}

func TestConsultant_IsBookable(t *testing.T) {
	tests := []struct {
		name       string
		consultant *Consultant
		want       bool
	}{
		{"active verified", &Consultant{Status: ConsultantStatusActive, IsVerified: true}, true},
		{"active unverified", &Consultant{Status: ConsultantStatusActive}, false},
		{"suspended", &Consultant{Status: ConsultantStatusSuspended, IsVerified: true}, false},
		{"kyc review", &Consultant{Status: ConsultantStatusKYCReview, IsVerified: true}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.consultant.IsBookable())
		})
	}
}

func TestPagination_Normalize(t *testing.T) {
	p := Pagination{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = Pagination{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}
