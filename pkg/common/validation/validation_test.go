package validation

import (
	"errors"
	"testing"
	"time"

	tperrors "github.com/markbuckner/tpool/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 1, false},
		{"large positive", 1 << 20, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("pool", "workerCount", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, tperrors.ErrInvalidConfiguration) {
				t.Error("validation errors should match ErrInvalidConfiguration")
			}
		})
	}
}

func TestValidateNonNegativeDuration(t *testing.T) {
	tests := []struct {
		name    string
		value   time.Duration
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", time.Second, false},
		{"negative", -time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegativeDuration("pool", "timeout", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegativeDuration(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNotNil(t *testing.T) {
	if err := ValidateNotNil("pool", "task", nil); err == nil {
		t.Error("expected error for nil value")
	}
	if err := ValidateNotNil("pool", "task", struct{}{}); err != nil {
		t.Errorf("unexpected error for non-nil value: %v", err)
	}
}

func TestValidateNotEmpty(t *testing.T) {
	if err := ValidateNotEmpty("scheduler", "id", ""); err == nil {
		t.Error("expected error for empty string")
	}
	if err := ValidateNotEmpty("scheduler", "id", "backup"); err != nil {
		t.Errorf("unexpected error for non-empty string: %v", err)
	}
}
