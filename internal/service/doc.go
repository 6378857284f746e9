// Package service holds the application use cases: account signup and
// signin, the audit-logged task mutation pipeline, and the audit log query.
package service
