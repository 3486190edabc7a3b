// Package test provides infrastructure and utilities for integration testing.
//
// The test package implements a complete test environment that allows testing
// the interaction between different components while maintaining control over
// external dependencies. It wires an in-memory database, a real API server
// and a real API client around a mocked model runner, so tests exercise the
// same HTTP surface production clients use.
//
// The package provides:
//
//   - TestEnvironment: A struct that manages a complete test setup including
//     the database, API server, API client and background worker
//
//   - Mock Management: The model runner is replaced with runner.MockClient so
//     training and inference behavior can be scripted per test
//
// Example Usage:
//
//	func TestExample(t *testing.T) {
//	    env := test.NewTestEnvironment(t)
//	    defer env.Cleanup()
//
//	    // Use env.APIClient to make requests
//	    // Use env.MockRunner to configure runner behavior
//	}
package test
