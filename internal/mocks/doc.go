// Package mocks provides centralized mock implementations for testing.
//
// Each mock has function fields for every interface method. When a field is
// nil the mock falls back to a small in-memory implementation, so most tests
// only override the one call they care about:
//
//	products := mocks.NewMockProductStore()
//	products.DeleteFn = func(ctx context.Context, id string) error {
//	    return errors.New("boom")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Keep the fallback behavior consistent with the Postgres implementation
package mocks
