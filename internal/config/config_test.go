package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestRequireEnvSlice(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		expected  []string
		wantPanic bool
	}{
		{
			name:      "single value",
			key:       "TEST_SLICE",
			value:     "sk-abc",
			expected:  []string{"sk-abc"},
			wantPanic: false,
		},
		{
			name:      "multiple values",
			key:       "TEST_SLICE_MULTI",
			value:     "sk-one, sk-two, sk-three",
			expected:  []string{"sk-one", "sk-two", "sk-three"},
			wantPanic: false,
		},
		{
			name:      "missing variable",
			key:       "TEST_SLICE_MISSING",
			value:     "",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvSlice() should have panicked")
					}
				}()
			}

			result := requireEnvSlice(tt.key)
			if !tt.wantPanic {
				if len(result) != len(tt.expected) {
					t.Errorf("requireEnvSlice() length = %v, want %v", len(result), len(tt.expected))
				}
				for i := range result {
					if result[i] != tt.expected[i] {
						t.Errorf("requireEnvSlice()[%d] = %v, want %v", i, result[i], tt.expected[i])
					}
				}
			}
		})
	}
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected map[int]float64
		wantErr  bool
	}{
		{
			name:     "standard distribution",
			spec:     "2:0.8,4:0.15,3:0.05",
			expected: map[int]float64{2: 0.8, 3: 0.05, 4: 0.15},
		},
		{
			name:     "single length",
			spec:     "2:1",
			expected: map[int]float64{2: 1},
		},
		{
			name:     "spaces around pairs",
			spec:     " 2:0.5 , 3:0.5 ",
			expected: map[int]float64{2: 0.5, 3: 0.5},
		},
		{
			name:    "missing separator",
			spec:    "2-0.8",
			wantErr: true,
		},
		{
			name:    "zero weight",
			spec:    "2:0",
			wantErr: true,
		},
		{
			name:    "negative length",
			spec:    "-1:0.5",
			wantErr: true,
		},
		{
			name:    "duplicate length",
			spec:    "2:0.5,2:0.5",
			wantErr: true,
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseWeights(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseWeights(%q) expected error, got %v", tt.spec, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeights(%q) unexpected error: %v", tt.spec, err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("ParseWeights(%q) length = %v, want %v", tt.spec, len(result), len(tt.expected))
			}
			for length, weight := range tt.expected {
				if result[length] != weight {
					t.Errorf("ParseWeights(%q)[%d] = %v, want %v", tt.spec, length, result[length], weight)
				}
			}
		})
	}
}

func TestMustWeights(t *testing.T) {
	t.Run("missing variable uses default", func(t *testing.T) {
		def := map[int]float64{2: 1}
		result := mustWeights("TEST_WEIGHTS_MISSING", def)
		if len(result) != 1 || result[2] != 1 {
			t.Errorf("mustWeights() = %v, want %v", result, def)
		}
	})

	t.Run("invalid spec panics", func(t *testing.T) {
		if err := os.Setenv("TEST_WEIGHTS_INVALID", "nope"); err != nil {
			t.Fatalf("failed to set env var: %v", err)
		}
		defer func() {
			if err := os.Unsetenv("TEST_WEIGHTS_INVALID"); err != nil {
				t.Errorf("failed to unset env var: %v", err)
			}
		}()
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("mustWeights() should have panicked")
			}
		}()
		mustWeights("TEST_WEIGHTS_INVALID", nil)
	})
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}
