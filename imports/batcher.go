package imports

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"product-import-api/common"
	"product-import-api/parsers"
	"product-import-api/products"

	"go.uber.org/zap"
)

// BatchSize is the number of rows committed in a single database transaction
const BatchSize = 500

// RunState tracks counters and accumulated row errors for one upload. It
// lives for the duration of a single run and is never persisted.
type RunState struct {
	TotalRows int
	Processed int
	Errors    []string
}

// RecordStore is the persistence surface the import run needs: lookups
// against committed state and atomic batch commits.
type RecordStore interface {
	FindBySKU(sku string) (*products.ProductModel, error)
	CommitBatch(records []*products.ProductModel) error
}

// batcher applies create-or-update semantics row by row, staging records
// until a commit boundary. The cache maps normalized SKU to the record
// staged for it, so a SKU repeated inside one uncommitted batch mutates the
// already-staged record instead of inserting a duplicate.
type batcher struct {
	store  RecordStore
	size   int
	cache  map[string]*products.ProductModel
	staged []*products.ProductModel
	state  *RunState
}

func newBatcher(store RecordStore, size int, state *RunState) *batcher {
	return &batcher{
		store: store,
		size:  size,
		cache: make(map[string]*products.ProductModel),
		state: state,
	}
}

// processRow handles one CSV row. Row-level problems are recorded in the run
// state and the row still counts as processed; they never halt the run.
func (b *batcher) processRow(record parsers.Record) {
	b.state.TotalRows++
	rowNum := b.state.TotalRows

	sku := strings.ToLower(strings.TrimSpace(record["sku"]))
	name := strings.TrimSpace(record["name"])
	description := strings.TrimSpace(record["description"])

	if sku == "" {
		b.state.Errors = append(b.state.Errors, fmt.Sprintf("Row %d: Missing SKU", rowNum))
		b.state.Processed++
		return
	}

	// Last row with a given SKU inside an uncommitted batch wins
	if staged, ok := b.cache[sku]; ok {
		staged.Name = name
		staged.Description = description
		staged.Active = true
		b.state.Processed++
		return
	}

	existing, err := b.store.FindBySKU(sku)
	if err != nil {
		b.state.Errors = append(b.state.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		b.state.Processed++
		return
	}

	if existing != nil {
		// Update existing product
		existing.Name = name
		existing.Description = description
		existing.Active = true
		b.cache[sku] = existing
		b.staged = append(b.staged, existing)
	} else {
		// Create new product
		b.cache[sku] = &products.ProductModel{
			Name:        name,
			SKU:         sku,
			Description: description,
			Active:      true,
		}
		b.staged = append(b.staged, b.cache[sku])
	}

	b.state.Processed++
}

// full reports whether the staged batch reached the commit threshold
func (b *batcher) full() bool {
	return len(b.staged) >= b.size
}

// commit flushes the staged batch atomically and clears the batch cache
func (b *batcher) commit() error {
	if err := b.store.CommitBatch(b.staged); err != nil {
		return err
	}
	b.staged = nil
	b.cache = make(map[string]*products.ProductModel)
	return nil
}

// RunImport drives one upload end to end, pushing ordered progress events
// into the channel and closing it after the terminal event. Every emit
// blocks until the transport consumes the event, so commit boundaries double
// as flush points. When the context ends mid-run the uncommitted batch is
// abandoned: nothing past the last successful commit reaches the store.
func RunImport(ctx context.Context, store RecordStore, data []byte, estimate RowEstimator, events chan<- Event) {
	defer close(events)

	if !emit(ctx, events, Event{Status: StatusParsing, Progress: 0, Message: "Upload received, starting processing..."}) {
		return
	}

	sizeMB := float64(len(data)) / (1024 * 1024)
	if !emit(ctx, events, Event{Status: StatusParsing, Progress: 2, Message: fmt.Sprintf("File read: %.1f MB", sizeMB)}) {
		return
	}
	if !emit(ctx, events, Event{Status: StatusParsing, Progress: 5, Message: "Decoding file content..."}) {
		return
	}

	records, decodeErrs, err := parsers.DecodeCSV(data)
	if err != nil {
		common.Log.Error("import decode failed", zap.Error(err))
		emit(ctx, events, Event{Status: StatusError, Progress: 0, Message: fmt.Sprintf("Error: %v", err)})
		return
	}

	// Row-level decoder errors are collected concurrently; the decoder
	// blocks otherwise
	var decodeErrors []string
	var decodeWg sync.WaitGroup
	decodeWg.Add(1)
	go func() {
		defer decodeWg.Done()
		for err := range decodeErrs {
			decodeErrors = append(decodeErrors, fmt.Sprintf("CSV: %v", err))
		}
	}()

	if !emit(ctx, events, Event{Status: StatusParsing, Progress: 8, Message: "Parsing CSV structure..."}) {
		go drainRecords(records)
		return
	}

	estimated := estimate(len(data))
	state := &RunState{}
	b := newBatcher(store, BatchSize, state)

	if !emit(ctx, events, Event{Status: StatusParsing, Progress: parsingCeiling, Message: "Starting to process rows..."}) {
		go drainRecords(records)
		return
	}

	common.Log.Info("import run started",
		zap.Int("bytes", len(data)),
		zap.Int("estimated_rows", estimated))

	for record := range records {
		b.processRow(record)

		if !b.full() {
			continue
		}

		if err := b.commit(); err != nil {
			go drainRecords(records)
			common.Log.Error("batch commit failed", zap.Int("processed", state.Processed), zap.Error(err))
			emit(ctx, events, Event{Status: StatusError, Progress: 0, Message: fmt.Sprintf("Error: %v", err)})
			return
		}

		progressEvent := Event{
			Status:    StatusProcessing,
			Progress:  processingProgress(state.Processed, estimated),
			Processed: state.Processed,
			Message:   fmt.Sprintf("Processed %d products...", state.Processed),
		}
		if !emit(ctx, events, progressEvent) {
			go drainRecords(records)
			return
		}
	}

	decodeWg.Wait()
	state.Errors = append(state.Errors, decodeErrors...)

	// Final commit flushes the partial batch
	if err := b.commit(); err != nil {
		common.Log.Error("final commit failed", zap.Int("processed", state.Processed), zap.Error(err))
		emit(ctx, events, Event{Status: StatusError, Progress: 0, Message: fmt.Sprintf("Error: %v", err)})
		return
	}

	common.Log.Info("import run complete",
		zap.Int("processed", state.Processed),
		zap.Int("row_errors", len(state.Errors)))

	emit(ctx, events, Event{
		Status:    StatusComplete,
		Progress:  100,
		Processed: state.Processed,
		Total:     state.TotalRows,
		Errors:    len(state.Errors),
		Message:   fmt.Sprintf("Import complete: %d products processed", state.Processed),
	})
}

// emit pushes one event, giving up when the client connection is gone
func emit(ctx context.Context, events chan<- Event, event Event) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// drainRecords unblocks the decoder goroutine after an aborted run
func drainRecords(records <-chan parsers.Record) {
	for range records {
	}
}
