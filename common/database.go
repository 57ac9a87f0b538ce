package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared database handle, set by Init (or TestDBInit in tests)
var DB *gorm.DB

// Init opens the database and stores the shared handle
func Init() *gorm.DB {
	path := Getenv("DATABASE_PATH", "products.db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Println("db err:", err)
		os.Exit(1)
	}

	DB = db
	return DB
}

// TestDBInit opens a throwaway database for tests
func TestDBInit() *gorm.DB {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("product_import_test_%d.db", os.Getpid()))
	os.Remove(path)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Println("test db err:", err)
		os.Exit(1)
	}

	DB = db
	return DB
}

// TestDBFree closes the test database and removes its file
func TestDBFree(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
	os.Remove(filepath.Join(os.TempDir(), fmt.Sprintf("product_import_test_%d.db", os.Getpid())))
}

// GetDB returns the shared database handle
func GetDB() *gorm.DB {
	return DB
}
