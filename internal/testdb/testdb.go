// Package testdb opens a throwaway SQLite database for repository tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a file-backed SQLite database under t.TempDir and migrates the
// given models into it. Foreign keys are enforced, as they are in Postgres.
func Open(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dugout.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps transactions and plain reads on the same handle.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}
