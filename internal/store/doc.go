// Package store defines the persistence interfaces for users, tasks,
// gamification profiles and the activity log, together with the errors
// implementations must return and a helper for running work in a
// transaction.
//
// Every store exposes WithTx so a service can compose several stores in one
// transaction. Profile mutations must be read with GetForUpdate and written
// with Update inside the same transaction; Update additionally checks the
// profile's version so a concurrent writer can never be silently
// overwritten.
package store
