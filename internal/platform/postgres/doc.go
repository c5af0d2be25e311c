// Package postgres implements the internal/store interfaces on PostgreSQL.
// Stores accept a store.DBTX so the same queries run on a *sql.DB or inside
// a transaction obtained through WithTx. The schema lives in the embedded
// goose migrations of the migrations subpackage.
package postgres
