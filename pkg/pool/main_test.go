package pool

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches any worker goroutine that survives Stop.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
