// Package repository defines the data access layer.  Each repository owns
// one table (plus its join table where relevant) and exposes *Tx variants
// for statements that must commit together with others.  The sentinel
// errors below let handlers and services distinguish failure scenarios
// without inspecting driver errors.
package repository

import (
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects a write, such
// as a second category with the same name.  Handlers translate it into
// HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInUse is returned when a row cannot be deleted because other rows
// still reference it (e.g. a venue category assigned to venues).
var ErrInUse = errors.New("in use")

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique key violation.
func isDuplicate(err error) bool {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        return me.Number == mysqlDuplicateEntry
    }
    return err != nil && strings.Contains(err.Error(), "1062")
}

// mysqlRowIsReferenced is the server error number for deleting a parent row
// that a foreign key still points at.
const mysqlRowIsReferenced = 1451

// isReferenced reports whether err is a foreign key restriction on delete.
func isReferenced(err error) bool {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        return me.Number == mysqlRowIsReferenced
    }
    return false
}

// mysqlNoReferencedRow is the server error number for inserting a child row
// whose parent does not exist.
const mysqlNoReferencedRow = 1452

func isMissingParent(err error) bool {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        return me.Number == mysqlNoReferencedRow
    }
    return false
}
