// Package dbtest opens isolated in-memory sqlite databases for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a fresh database with models migrated. Every call gets its own
// named in-memory database, so parallel tests never share rows.
func Open(tb testing.TB, models ...any) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	pool, err := conn.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps the memory database alive and serializes writers
	pool.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = pool.Close() })

	if len(models) == 0 {
		return conn
	}
	if err := conn.AutoMigrate(models...); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}
