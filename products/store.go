package products

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store is the record store consumed by the import pipeline. Lookups run
// against committed state; staged records are handed back to CommitBatch,
// which persists a whole batch in one transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a database handle in a product record store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindBySKU looks up a product by SKU, case-insensitive exact match.
// Returns nil without error when no product matches.
func (s *Store) FindBySKU(sku string) (*ProductModel, error) {
	var product ProductModel
	err := s.db.Where("LOWER(sku) = ?", strings.ToLower(sku)).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CommitBatch persists all staged records in a single transaction. Records
// without an ID are inserted, the rest updated. The batch succeeds or fails
// as a whole; a SKU uniqueness violation surfaces as the returned error.
func (s *Store) CommitBatch(records []*ProductModel) error {
	if len(records) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Save(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
