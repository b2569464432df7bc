package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "graphs/k4.dot", false},
		{"absolute", "/tmp/out.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateCeiling(t *testing.T) {
	tests := []struct {
		ceiling int
		wantErr bool
	}{
		{0, false},
		{7, false},
		{MaxCeiling, false},
		{-1, true},
		{MaxCeiling + 1, true},
	}

	for _, tt := range tests {
		err := ValidateCeiling(tt.ceiling)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCeiling(%d) error = %v, wantErr %v", tt.ceiling, err, tt.wantErr)
		}
	}
}

func TestValidateMethod(t *testing.T) {
	valid := []string{"dp", "sat"}

	if err := ValidateMethod("dp", valid); err != nil {
		t.Errorf("ValidateMethod(dp) = %v", err)
	}
	err := ValidateMethod("ilp", valid)
	if err == nil {
		t.Fatal("ValidateMethod(ilp) should fail")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
}

func TestValidateGraph6(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"triangle", "Bw", false},
		{"with header", ">>graph6<<Bw", false},
		{"trailing newline", "Bw\n", false},

		{"empty", "", true},
		{"header only", ">>graph6<<", true},
		{"space inside", "B w", true},
		{"low byte", "B!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraph6(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraph6(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
