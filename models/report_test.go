package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracyRate(t *testing.T) {
	assert.Equal(t, 0.0, ScanSummary{}.AccuracyRate())
	assert.Equal(t, 66.7, ScanSummary{TotalScans: 6, HighConfidenceScans: 4}.AccuracyRate())
	assert.Equal(t, 100.0, ScanSummary{TotalScans: 3, TodayScans: 3, HighConfidenceScans: 3}.AccuracyRate())
}
