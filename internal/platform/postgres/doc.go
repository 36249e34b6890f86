// Package postgres implements the store interfaces on top of a PostgreSQL
// database accessed through database/sql with the pgx driver. All task and
// category queries carry the owning user's ID in their WHERE clause, so an
// ID belonging to another user scans as sql.ErrNoRows rather than as a
// distinguishable authorization failure.
package postgres
