package utils_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/vpdoc/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestContainsString verifies that ContainsString locates strings in a slice.
func TestContainsString(testingInstance *testing.T) {
	values := []string{"alpha", "beta"}
	if !utils.ContainsString(values, "beta") {
		testingInstance.Errorf("expected beta to be found")
	}
	if utils.ContainsString(values, "gamma") {
		testingInstance.Errorf("did not expect gamma to be found")
	}
}

// TestSplitPatternList verifies comma separated flag values are split and trimmed.
func TestSplitPatternList(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		rawList  string
		expected []string
	}{
		{testName: "empty", rawList: "", expected: nil},
		{testName: "single", rawList: "*.ts", expected: []string{"*.ts"}},
		{testName: "trims and drops blanks", rawList: " *.ts, ,*.test.ts,", expected: []string{"*.ts", "*.test.ts"}},
		{testName: "keeps brace alternatives", rawList: "*.{js,ts,vue},*.test.{js,ts}", expected: []string{"*.{js,ts,vue}", "*.test.{js,ts}"}},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(t *testing.T) {
			actual := utils.SplitPatternList(testCase.rawList)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}

// TestExpandPatternLists verifies repeated flags and comma lists are merged without duplicates.
func TestExpandPatternLists(testingInstance *testing.T) {
	actual := utils.ExpandPatternLists([]string{"*.ts,*.js", "*.ts", "*.vue"})
	expected := []string{"*.ts", "*.js", "*.vue"}
	if !reflect.DeepEqual(actual, expected) {
		testingInstance.Fatalf("expected %v, got %v", expected, actual)
	}
}

// TestRelativePathOrSelf verifies relative path computation.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	root := filepath.Join("project", "src")
	if result := utils.RelativePathOrSelf(root, root); result != "." {
		testingInstance.Errorf("expected '.', got %s", result)
	}
	nested := filepath.Join(root, "sub", "b.ts")
	if result := utils.RelativePathOrSelf(nested, root); result != "sub/b.ts" {
		testingInstance.Errorf("expected sub/b.ts, got %s", result)
	}
}

// TestTrimPathPrefix verifies prefix stripping used for pattern matching.
func TestTrimPathPrefix(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		path     string
		prefix   string
		expected string
	}{
		{testName: "same path", path: filepath.Join("src", "a"), prefix: filepath.Join("src", "a"), expected: ""},
		{testName: "nested path", path: filepath.Join("src", "sub", "deep"), prefix: "src", expected: "sub/deep"},
		{testName: "empty prefix", path: "src", prefix: "", expected: "src"},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(t *testing.T) {
			if actual := utils.TrimPathPrefix(testCase.path, testCase.prefix); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

// TestIsHiddenPath verifies dot-prefixed segments are detected.
func TestIsHiddenPath(testingInstance *testing.T) {
	testCases := map[string]bool{
		"src/a.ts":         false,
		"./src/a.ts":       false,
		"../src/a.ts":      false,
		"src/.cache/a.ts":  true,
		".git":             true,
		"src/.eslintrc.js": true,
	}
	for path, expected := range testCases {
		if actual := utils.IsHiddenPath(path); actual != expected {
			testingInstance.Errorf("%s: expected %v, got %v", path, expected, actual)
		}
	}
}

// TestNormalizeSourceFolder verifies the source folder flag is normalized.
func TestNormalizeSourceFolder(testingInstance *testing.T) {
	testCases := map[string]string{
		"./src":  "src",
		"src/":   "src",
		"./":     ".",
		"lib/js": filepath.FromSlash("lib/js"),
	}
	for input, expected := range testCases {
		if actual := utils.NormalizeSourceFolder(input); actual != expected {
			testingInstance.Errorf("%s: expected %s, got %s", input, expected, actual)
		}
	}
}
