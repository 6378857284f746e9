// Package mocks provides shared test doubles for the store and auth
// interfaces.
//
// Two styles live side by side:
//
//   - Mock* types are in-memory fakes with optional function and error
//     overrides. They behave like a real backend and are used for end-to-end
//     router scenarios.
//   - TestifyMock* types embed testify's mock.Mock for interaction tests.
//
// Usage:
//
//	tasks := mocks.NewMockTaskStore()
//	audit := mocks.NewMockAuditStore()
//	svc, _ := service.NewTaskService(tasks, audit, mocks.PassthroughTxRunner, nil, nil)
package mocks
