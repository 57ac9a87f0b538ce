package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when an uploaded buffer is not valid UTF-8 text
var ErrInvalidUTF8 = errors.New("file content is not valid UTF-8")

// Record represents a single CSV row as a map of column name to value
type Record map[string]string

// DecodeCSV interprets a complete upload buffer as UTF-8 CSV text and streams
// one record per data row, keyed by the header row. The synchronous error
// reports an undecodable buffer; row-level problems go to the error channel
// and do not stop the stream. Rows arrive in source order, missing trailing
// fields are empty strings, and the stream can only be consumed once.
// Caller must drain both channels to avoid a goroutine leak.
func DecodeCSV(data []byte) (<-chan Record, <-chan error, error) {
	if !utf8.Valid(data) {
		return nil, nil, ErrInvalidUTF8
	}

	records := make(chan Record, 100) // Buffered for better throughput
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		csvReader := csv.NewReader(bytes.NewReader(data))
		csvReader.ReuseRecord = true   // Reuse slice for better performance
		csvReader.FieldsPerRecord = -1 // Allow variable number of fields

		// Read header row
		headers, err := csvReader.Read()
		if err != nil {
			if err != io.EOF {
				errs <- err
			}
			return
		}

		// Make a copy of headers since we're reusing the record slice
		headersCopy := make([]string, len(headers))
		copy(headersCopy, headers)

		// Read data rows
		for {
			row, err := csvReader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				errs <- err
				continue // Skip malformed rows, continue processing
			}

			// Map row to headers
			record := make(Record)
			for i, header := range headersCopy {
				if i < len(row) {
					record[header] = row[i]
				} else {
					record[header] = "" // Missing column value
				}
			}

			records <- record
		}
	}()

	return records, errs, nil
}
