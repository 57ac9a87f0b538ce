package imports

import "math"

// Import run statuses, in lifecycle order. A run moves parsing -> processing
// -> complete; error is an alternate terminal state reachable from anywhere.
const (
	StatusParsing    = "parsing"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

const (
	// parsingCeiling is the progress value handed off from the parsing ramp
	// to real row counting. The ramp below it is a fixed liveness signal,
	// not a load measurement.
	parsingCeiling = 10

	// progressCap keeps processing events below 100; only the completion
	// event reports the run as finished
	progressCap = 99

	// avgRowBytes is the assumed average CSV row size used to estimate the
	// total row count from the upload size
	avgRowBytes = 450

	// minEstimatedRows floors the estimate so tiny uploads do not jump
	// straight to the cap
	minEstimatedRows = 1000
)

// Event is one self-contained progress message pushed to the client. The
// client treats the latest event as current state and a complete or error
// status as the signal to stop listening.
type Event struct {
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message"`
	Processed int     `json:"processed,omitempty"`
	Total     int     `json:"total,omitempty"`
	Errors    int     `json:"errors,omitempty"`
}

// RowEstimator guesses the number of data rows in an upload from its byte
// size. The guess only drives progress granularity and is never treated as
// authoritative; the true count is unknown until the row stream is exhausted.
type RowEstimator func(byteSize int) int

// EstimateRows is the default estimator
func EstimateRows(byteSize int) int {
	estimated := byteSize / avgRowBytes
	if estimated < minEstimatedRows {
		return minEstimatedRows
	}
	return estimated
}

// processingProgress maps a processed-row count onto the band between the
// parsing handoff and the cap. Monotonic in processed, so emitted progress
// values never decrease, and never reaches 100 before completion.
func processingProgress(processed, estimated int) float64 {
	span := float64(progressCap - parsingCeiling)
	progress := float64(parsingCeiling) + math.Min(float64(processed)/float64(estimated)*span, span)
	return math.Round(progress*100) / 100
}
