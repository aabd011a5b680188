package repository

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// statusArray adapts a status slice for Postgres ANY($n) comparisons.
func statusArray(statuses []string) driver.Valuer {
	return pq.Array(statuses)
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
