// Package repository defines the record store: one repository per entity
// over a sqlx connection.  The sentinel values below let the service layer
// tell "row absent" and "unique key violated" apart from driver failures
// without knowing which database is in use.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique key, such as a
// second member with the same email or a second reservation for a slot.
var ErrDuplicate = errors.New("duplicate record")

// isDuplicateKey recognises unique violations from every supported driver.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite reports constraint failures only through the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
