package mysql

import (
	"fmt"

	driver "github.com/go-sql-driver/mysql"
)

// NormalizeDSN forces the connection options the repo depends on: DATE and
// DATETIME columns scan into time.Time, and UPDATE reports matched rows so an
// unchanged row is not mistaken for a missing trip.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse MYSQL_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
