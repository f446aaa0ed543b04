package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 30000.0 / 1001.0},
		{"25", 25},
		{"0/0", 0},
		{"30/0", 0},
		{"garbage", 0},
		{"abc/def", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseRate(tt.rate), 1e-9)
		})
	}
}
