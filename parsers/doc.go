// Package parsers provides a streaming CSV decoder for bulk product uploads.
//
// The decoder is designed for memory-efficient processing of large uploads by
// streaming records through a Go channel instead of materializing every row.
// The first CSV line is used as the header; each subsequent line becomes a
// map of column name to value.
//
// DecodeCSV returns two channels plus a synchronous error:
//   - A records channel that streams parsed rows in source order
//   - An errors channel for non-fatal row-level parsing errors
//   - A synchronous error when the buffer is not valid UTF-8 text
//
// Callers must consume both channels to avoid goroutine leaks.
//
// Example usage:
//
//	records, errs, err := parsers.DecodeCSV(data)
//	if err != nil {
//	    return err // undecodable upload
//	}
//
//	go func() {
//	    for err := range errs {
//	        log.Printf("CSV error: %v", err)
//	    }
//	}()
//
//	for record := range records {
//	    // Process each record (map[string]string)
//	    fmt.Println(record["sku"])
//	}
package parsers
