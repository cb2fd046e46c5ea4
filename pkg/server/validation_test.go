package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type versionString struct {
	Value string `validate:"versionString"`
}

type validationScenario struct {
	name          string
	input         any
	shouldTrigger bool
}

func runscenarios(t *testing.T, scenarios []validationScenario) {
	t.Helper()

	validator, err := NewValidator()
	require.NoError(t, err)

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			errs := validator.Struct(scenario.input)

			if scenario.shouldTrigger && errs == nil {
				t.Errorf("Expected validation error, got nil")
			}

			if !scenario.shouldTrigger && errs != nil {
				t.Errorf("Expected no validation error, got %v", errs)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	scenarios := []validationScenario{
		{
			name:          "plain semver",
			input:         versionString{Value: "1.2.0"},
			shouldTrigger: false,
		},
		{
			name:          "v prefix",
			input:         versionString{Value: "v2.0"},
			shouldTrigger: false,
		},
		{
			name:          "single component",
			input:         versionString{Value: "3"},
			shouldTrigger: false,
		},
		{
			name:          "pre-release suffix",
			input:         versionString{Value: "v1.0.0-rc1"},
			shouldTrigger: false,
		},
		{
			name:          "dotted pre-release",
			input:         versionString{Value: "1.0.0-alpha.2"},
			shouldTrigger: false,
		},
		{
			name:          "empty",
			input:         versionString{Value: ""},
			shouldTrigger: true,
		},
		{
			name:          "four components",
			input:         versionString{Value: "1.2.3.4"},
			shouldTrigger: true,
		},
		{
			name:          "letters only",
			input:         versionString{Value: "latest"},
			shouldTrigger: true,
		},
		{
			name:          "trailing dot",
			input:         versionString{Value: "1.2."},
			shouldTrigger: true,
		},
		{
			name:          "whitespace",
			input:         versionString{Value: "1.2.0 "},
			shouldTrigger: true,
		},
	}

	runscenarios(t, scenarios)
}
