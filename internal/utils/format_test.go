package utils_test

import (
	"testing"

	"github.com/temirov/vpdoc/internal/utils"
)

func TestFormatElapsed(t *testing.T) {
	testCases := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0.00s"},
		{name: "fraction", seconds: 1.234, expected: "1.23s"},
		{name: "negative", seconds: -0.5, expected: "0.50s"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatElapsedSeconds(testCase.seconds)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
