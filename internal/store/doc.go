// Package store defines the persistence interfaces for users, tasks and the
// audit trail, together with the errors and transaction helpers shared by
// every implementation.
package store
