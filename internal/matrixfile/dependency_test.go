// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	"errors"
	"testing"
)

func TestParseDependencySpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		want     DependencySpec
		wantErr  bool
	}{
		{
			name:  "bare name",
			input: "pytest",
			want:  DependencySpec{Name: "pytest"},
		},
		{
			name:  "pinned version",
			input: "attrs==23.1.0",
			want:  DependencySpec{Name: "attrs", Operator: "==", Version: "23.1.0"},
		},
		{
			name:  "minimum version",
			input: "pytest>=7",
			want:  DependencySpec{Name: "pytest", Operator: ">=", Version: "7"},
		},
		{
			name:  "compatible release",
			input: "sphinx~=7.2",
			want:  DependencySpec{Name: "sphinx", Operator: "~=", Version: "7.2"},
		},
		{
			name:  "whitespace around operator",
			input: "eventlet >= 0.33",
			want:  DependencySpec{Name: "eventlet", Operator: ">=", Version: "0.33"},
		},
		{
			name:  "dotted and dashed name",
			input: "zope.interface-ext",
			want:  DependencySpec{Name: "zope.interface-ext"},
		},
		{
			name:    "operator without version",
			input:   "pytest>=",
			wantErr: true,
		},
		{
			name:    "leading operator",
			input:   ">=1.0",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "embedded spaces in name",
			input:   "two words",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDependencySpec(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDependencySpec(%q) succeeded, want error", tt.input)
				}
				if !errors.Is(err, ErrInvalidDependencySpec) {
					t.Errorf("error does not wrap ErrInvalidDependencySpec: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDependencySpec(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDependencySpec(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDependencySpecString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec DependencySpec
		want string
	}{
		{DependencySpec{Name: "pytest"}, "pytest"},
		{DependencySpec{Name: "attrs", Operator: "==", Version: "23.1.0"}, "attrs==23.1.0"},
		{DependencySpec{Name: "eventlet", Operator: ">=", Version: "0.33"}, "eventlet>=0.33"},
	}

	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnvNameIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value     EnvName
		wantValid bool
	}{
		{"py311", true},
		{"py311-eventlet", true},
		{"docs", true},
		{"a.b_c-d", true},
		{"", false},
		{"-leading-dash", false},
		{"has space", false},
		{"has/slash", false},
	}

	for _, tt := range tests {
		isValid, errs := tt.value.IsValid()
		if isValid != tt.wantValid {
			t.Errorf("EnvName(%q).IsValid() = %v, want %v", tt.value, isValid, tt.wantValid)
		}
		if !tt.wantValid {
			if len(errs) == 0 {
				t.Errorf("EnvName(%q).IsValid() returned no errors for invalid value", tt.value)
			} else if !errors.Is(errs[0], ErrInvalidEnvName) {
				t.Errorf("error does not wrap ErrInvalidEnvName: %v", errs[0])
			}
		}
	}
}
