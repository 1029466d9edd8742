package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialise_EnvDefaults(t *testing.T) {
	cfg, err := Initialise("", true)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "event-notifications", cfg.Kafka.NotificationTopic)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "1", cfg.Workflow.StaffID)
	assert.Equal(t, 10*time.Second, cfg.VenueService.Timeout())
	assert.Equal(t, 2, cfg.VenueService.MaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.Workflow.EventTypesCacheTTL())
}

func TestInitialise_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VENUE_SERVICE_URL", "http://venues:7088")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WORKFLOW_STAFF_ID", "42")

	cfg, err := Initialise("", true)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://venues:7088", cfg.VenueService.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "42", cfg.Workflow.StaffID)
}

func TestInitialise_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8181"
database:
  host: db.internal
  database_name: events
venue_service:
  base_url: http://venues.internal
  request_timeout_seconds: 3
workflow:
  staff_id: "7"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Initialise(path, false)
	require.NoError(t, err)

	assert.Equal(t, "8181", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "http://venues.internal", cfg.VenueService.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.VenueService.Timeout())
	assert.Equal(t, "7", cfg.Workflow.StaffID)
}

func TestInitialise_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Initialise(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestDatabase_GetDatabaseURL(t *testing.T) {
	d := Database{User: "u", Password: "p", Host: "h", Port: "1", DatabaseName: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/n?sslmode=disable", d.GetDatabaseURL())
}
