// Package service implements the application use cases on top of the domain
// packages and the store interfaces: task management, review scheduling,
// gamification and user accounts.
//
// Services own transaction boundaries. Operations that touch both a task and
// the user's gamification profile run in one transaction via
// store.RunInTransaction, with each store rebound to it through WithTx, and
// are retried when an optimistic profile update loses a race. Activity
// events are published only after the transaction commits.
package service
