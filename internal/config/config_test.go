package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[consultant_service]
url = "http://consultants:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"10:00", "14:00"}, cfg.Booking.Slots)
	assert.Equal(t, 30, cfg.Booking.DurationMinutes)
	assert.Equal(t, "EUR", cfg.Booking.Currency)

	tpl, err := cfg.Booking.SlotTemplate()
	require.NoError(t, err)
	assert.Equal(t, "30", tpl.Amount.String())
	assert.Equal(t, "UTC", tpl.Location.String())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
driver = "memory"

[booking]
slots = ["09:00", "11:30", "16:00"]
duration_minutes = 45
amount = "49.90"
currency = "CHF"
timezone = "Europe/Zurich"

[consultant_service]
url = "http://consultants:8080"
cache_ttl = 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 120, cfg.ConsultantService.CacheTTL)

	tpl, err := cfg.Booking.SlotTemplate()
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:30", "16:00"}, tpl.Slots)
	assert.Equal(t, "49.9", tpl.Amount.String())
	assert.Equal(t, "CHF", tpl.Currency)
	assert.Equal(t, 45, tpl.DurationMinutes)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("OPERATOR_TOKEN", "secret-token")
	t.Setenv("DB_PASSWORD", "db-secret")

	path := writeConfig(t, `
[auth]
operator_token = "from-file"

[consultant_service]
url = "http://consultants:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Auth.OperatorToken)
	assert.Equal(t, "db-secret", cfg.Database.Password)
}

func TestValidate_BookingTemplate(t *testing.T) {
	tests := []struct {
		name    string
		booking BookingConfig
	}{
		{"bad label", BookingConfig{Slots: []string{"10:00", "25:00"}, DurationMinutes: 30, Amount: "30", Currency: "EUR", Timezone: "UTC"}},
		{"not ascending", BookingConfig{Slots: []string{"14:00", "10:00"}, DurationMinutes: 30, Amount: "30", Currency: "EUR", Timezone: "UTC"}},
		{"duplicate", BookingConfig{Slots: []string{"10:00", "10:00"}, DurationMinutes: 30, Amount: "30", Currency: "EUR", Timezone: "UTC"}},
		{"zero amount", BookingConfig{Slots: []string{"10:00"}, DurationMinutes: 30, Amount: "0", Currency: "EUR", Timezone: "UTC"}},
		{"bad currency", BookingConfig{Slots: []string{"10:00"}, DurationMinutes: 30, Amount: "30", Currency: "euro", Timezone: "UTC"}},
		{"bad timezone", BookingConfig{Slots: []string{"10:00"}, DurationMinutes: 30, Amount: "30", Currency: "EUR", Timezone: "Mars/Base"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.booking.validate(), ErrInvalidConfig)
		})
	}
}

func TestValidate_RequiresConsultantServiceURL(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 8080
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: 5432, User: "app", Password: "pw", DBName: "bookings", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=app password=pw dbname=bookings sslmode=disable", db.DSN())
	assert.Equal(t, "postgres://app:pw@localhost:5432/bookings?sslmode=disable", db.URL())
}
