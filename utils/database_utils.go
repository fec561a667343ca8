// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8

	defaultSSLMode = "disable"
)

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// PostgresDSN builds the connection string of the registry database from
// DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME and DB_SSLMODE.
func PostgresDSN() string {
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = defaultSSLMode
	}
	parts := []string{
		"host=" + os.Getenv("DB_HOST"),
		"user=" + os.Getenv("DB_USER"),
		"password=" + os.Getenv("DB_PASS"),
		"dbname=" + os.Getenv("DB_NAME"),
		"port=" + os.Getenv("DB_PORT"),
		"sslmode=" + sslMode,
	}
	return strings.Join(parts, " ")
}

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	return gorm.Open(postgres.Open(PostgresDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// CreateTestDB opens a private in-memory sqlite database with the full schema
// migrated. Each call gets its own database, which is closed on test cleanup.
func CreateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomTestDBName())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("cannot open sqlite test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("cannot get sqlite handle: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and avoids
	// SQLITE_BUSY between concurrent writers.
	sqlDB.SetMaxOpenConns(1)
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("cannot migrate sqlite test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// DatabaseSetupAndMigration migrates every registry table. Lookup rows are
// seeded lazily by the store, not here.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.DataType{},
		&model.FileType{},
		&model.Visibility{},
		&model.Species{},
		&model.Assembly{},
		&model.Hub{},
		&model.Trackdb{},
		&model.Track{},
		&model.GenomeAssemblyDump{},
	)
}
