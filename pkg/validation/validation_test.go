package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string `validate:"required"`
	Age   int    `validate:"gte=0,lte=150"`
	Level string `validate:"omitempty,oneof=debug info"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{"ok", sample{Name: "a", Age: 3}, ""},
		{"required", sample{Age: 3}, "Name is required"},
		{"range", sample{Name: "a", Age: 200}, "Age must be less than or equal to 150"},
		{"oneof", sample{Name: "a", Level: "trace"}, "Level must be one of: debug info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want contains %q", err, tt.wantErr)
			}
			var verr *Error
			if !errors.As(err, &verr) || len(verr.Fields) == 0 {
				t.Errorf("expected *Error with fields, got %T", err)
			}
		})
	}
}
