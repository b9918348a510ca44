// Package testutil provides test doubles for the web service client.
package testutil

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/prestashop/internal/transport"
	"github.com/stretchr/testify/mock"
)

// MockDoer is a mock implementation of transport.Doer for testing.
type MockDoer struct {
	mock.Mock
}

// Do mocks the Do method.
func (m *MockDoer) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.Response), args.Error(1)
}

// NewMockDoer creates a mock doer that fails the test on unexpected calls.
func NewMockDoer(t *testing.T) *MockDoer {
	t.Helper()
	m := new(MockDoer)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// JSON builds a 200 response with a JSON body.
func JSON(body string) *transport.Response {
	return &transport.Response{Status: 200, Body: []byte(body)}
}

// Empty builds a 200 response without body.
func Empty() *transport.Response {
	return &transport.Response{Status: 200}
}
