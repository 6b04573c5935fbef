// Package mock provides a test double for ai.Generator.
//
// # Usage in Tests
//
//	gen := mock.NewMockGenerator()
//	gen.GenerateFunc = func(ctx context.Context, q string, docs []core.Document) (string, error) {
//	    return "", errors.New("model down")
//	}
//	count := gen.CallCount()
//
// # Default Behavior
//
// Without GenerateFunc, MockGenerator answers with the question and the
// number of context documents.
package mock
