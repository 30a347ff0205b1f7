// Package postgres implements the store interfaces on PostgreSQL via
// database/sql and the pgx stdlib driver.
//
// Every store accepts a store.DBTX, so the same implementation runs
// against the pooled connection or inside a transaction obtained through
// WithTx. Driver errors are mapped onto the store package's sentinel
// errors (not found, duplicate, invalid reference, write conflict) so no
// pgx types leak past this package.
package postgres
