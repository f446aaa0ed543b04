package config

import (
	"testing"

	"github.com/skitrack/skitrack-processing-service/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "angles.processing", cfg.RabbitMQProcessingQueue)
	assert.Equal(t, "angles.status", cfg.RabbitMQStatusQueue)
	assert.Equal(t, "angles.processing.dlq", cfg.RabbitMQDLQ)
	assert.Equal(t, "skitrack.video", cfg.RabbitMQExchange)
	assert.Equal(t, "uploads", cfg.MinIOUploadBucket)
	assert.Equal(t, "results", cfg.MinIOResultsBucket)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, 50, cfg.MinBlobArea)
	assert.Equal(t, 0.0, cfg.OutputFPS)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RABBITMQ_PROCESSING_QUEUE", "angles.test")
	t.Setenv("MIN_BLOB_AREA", "120")
	t.Setenv("PINK_HSV_LOWER", "140,50,90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "angles.test", cfg.RabbitMQProcessingQueue)
	assert.Equal(t, 120, cfg.MinBlobArea)
	assert.Equal(t, []int{140, 50, 90}, cfg.PinkHSVLower)
}

func TestTrackingConfigDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	tc, err := cfg.TrackingConfig()
	require.NoError(t, err)

	assert.Equal(t, tracking.HSV{H: 150, S: 40, V: 80}, tc.Pink.Lower)
	assert.Equal(t, tracking.HSV{H: 179, S: 220, V: 255}, tc.Pink.Upper)
	assert.Equal(t, tracking.HSV{H: 40, S: 29, V: 108}, tc.Green.Lower)
	assert.Equal(t, tracking.HSV{H: 81, S: 143, V: 245}, tc.Green.Upper)
	assert.Equal(t, 50, tc.MinBlobArea)
	assert.Equal(t, tracking.DefaultPink.Overlay, tc.Pink.Overlay)
	assert.Equal(t, tracking.DefaultGreen.Overlay, tc.Green.Overlay)
}

func TestTrackingConfigRejectsBadTriples(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
	}{
		{"wrong component count", "PINK_HSV_LOWER", "150,40"},
		{"component above 255", "PINK_HSV_UPPER", "179,300,255"},
		{"negative component", "GREEN_HSV_LOWER", "40,-1,108"},
		{"hue above 179", "GREEN_HSV_UPPER", "200,143,245"},
		{"lower exceeds upper", "PINK_HSV_LOWER", "179,230,255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			require.NoError(t, err)

			_, err = cfg.TrackingConfig()
			assert.Error(t, err)
		})
	}
}

func TestTrackingConfigRejectsNegativeBlobArea(t *testing.T) {
	t.Setenv("MIN_BLOB_AREA", "-1")

	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.TrackingConfig()
	assert.ErrorContains(t, err, "MIN_BLOB_AREA")
}
