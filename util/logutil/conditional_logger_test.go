package logutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalLoggerSampling(t *testing.T) {
	testCases := []struct {
		name          string
		samplingRate  float64
		draws         []float64
		expectedCount int
	}{
		{
			name:          "Half rate, one of two draws below",
			samplingRate:  0.5,
			draws:         []float64{0.1, 0.9},
			expectedCount: 1,
		},
		{
			name:          "Zero rate drops everything",
			samplingRate:  0,
			draws:         []float64{0.0, 0.5, 0.99},
			expectedCount: 0,
		},
		{
			name:          "Full rate keeps everything",
			samplingRate:  1,
			draws:         []float64{0.0, 0.5, 0.99},
			expectedCount: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := NewConditionalLogger(tc.samplingRate)

			var emitted, debugged []string
			logger.logError = func(format string, args ...any) {
				emitted = append(emitted, fmt.Sprintf(format, args...))
			}
			logger.logDebug = func(format string, args ...any) {
				debugged = append(debugged, fmt.Sprintf(format, args...))
			}

			draw := 0
			logger.random = func() float64 {
				value := tc.draws[draw]
				draw++
				return value
			}

			for range tc.draws {
				logger.Errorf("conversion failed: %s to %s", "EUR", "JPY")
			}

			assert.Len(t, emitted, tc.expectedCount, "sampled error count")
			assert.Len(t, debugged, len(tc.draws), "every call logs at debug verbosity")
			if len(emitted) > 0 {
				assert.Equal(t, "conversion failed: EUR to JPY", emitted[0])
			}
		})
	}
}
