// Package domain contains the entities of the task log: users, the
// identities that act on tasks, tasks themselves and the audit entries
// their mutations leave behind. It depends on no storage or transport code.
package domain
