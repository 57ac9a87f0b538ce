package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateRows_FloorsSmallUploads(t *testing.T) {
	assert.Equal(t, 1000, EstimateRows(0))
	assert.Equal(t, 1000, EstimateRows(120))
	assert.Equal(t, 1000, EstimateRows(450*999))
}

func TestEstimateRows_ScalesWithByteSize(t *testing.T) {
	assert.Equal(t, 2000, EstimateRows(450*2000))
	assert.Equal(t, 100000, EstimateRows(450*100000))
}

func TestProcessingProgress_StartsAtHandoff(t *testing.T) {
	assert.InDelta(t, 10.0, processingProgress(0, 1000), 0.001)
}

func TestProcessingProgress_NeverReaches100(t *testing.T) {
	// Even when the estimate undershoots badly, processing events stay
	// below 100
	assert.LessOrEqual(t, processingProgress(5000, 1000), 99.0)
	assert.LessOrEqual(t, processingProgress(1000, 1000), 99.0)
}

func TestProcessingProgress_NonDecreasing(t *testing.T) {
	estimated := 10000
	last := 0.0
	for processed := 0; processed <= 20000; processed += 500 {
		p := processingProgress(processed, estimated)
		assert.GreaterOrEqual(t, p, last, "progress must never decrease")
		assert.Less(t, p, 100.0)
		last = p
	}
}
