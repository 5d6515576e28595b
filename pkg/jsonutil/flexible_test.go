package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"moderate"`, "moderate"},
		{"integer", `7`, "7"},
		{"float", `3.5`, "3.5"},
		{"negative integer", `-2`, "-2"},
		{"boolean true", `true`, "true"},
		{"boolean false", `false`, "false"},
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"string with spaces", `"limit intake"`, "limit intake"},
		{"unicode string", `"味精"`, "味精"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleStringValue(json.RawMessage(tt.raw))
			if got != tt.want {
				t.Errorf("FlexibleStringValue(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFlexibleBoolValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"bool true", `true`, true},
		{"bool false", `false`, false},
		{"string true", `"true"`, true},
		{"string yes", `"yes"`, true},
		{"string y", `"y"`, true},
		{"string one", `"1"`, true},
		{"string uppercase", `"YES"`, true},
		{"string padded", `" true "`, true},
		{"string no", `"no"`, false},
		{"string false", `"false"`, false},
		{"string arbitrary", `"maybe"`, false},
		{"number one", `1`, true},
		{"number zero", `0`, false},
		{"number nonzero", `42`, true},
		{"null", `null`, false},
		{"empty", ``, false},
		{"object", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleBoolValue(json.RawMessage(tt.raw))
			if got != tt.want {
				t.Errorf("FlexibleBoolValue(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
