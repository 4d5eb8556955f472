package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGorm wraps an already connected pool so gorm shares it with the database/sql repositories.
func OpenGorm(db *sql.DB, driver string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPgx, DriverPq:
		dialector = postgres.New(postgres.Config{Conn: db})
	case DriverSQLite:
		dialector = &sqlite.Dialector{Conn: db}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		// missing rows are an expected outcome of lookups, not worth a log line
		Logger: gormlogger.New(logger.WarnLogger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gdb, nil
}
