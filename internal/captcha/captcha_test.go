package captcha

import (
	"context"
	"errors"
	"testing"
)

func TestStatic(t *testing.T) {
	tests := []struct {
		name    string
		token   Static
		want    string
		wantErr error
	}{
		{"token", Static("ts-123"), "ts-123", nil},
		{"padded", Static("  ts-123 "), "ts-123", nil},
		{"empty", Static(""), "", ErrNotVerified},
		{"blank", Static("   "), "", ErrNotVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.token.Verify(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Verify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatic_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Static("ts").Verify(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Verify() error = %v, want %v", err, context.Canceled)
	}
}
