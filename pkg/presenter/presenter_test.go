package presenter

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var output, errorOutput bytes.Buffer
	p := NewWithOptions(&output, &errorOutput, ColorNever)
	return p, &output, &errorOutput
}

func TestNew(t *testing.T) {
	p := New()
	assert.NotNil(t, p)
	assert.Equal(t, os.Stdout, p.output)
	assert.Equal(t, os.Stderr, p.errorOutput)
	assert.False(t, p.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name          string
		noColor       string
		skilldexColor string
		expected      ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"NO_COLOR wins over force", "1", "always", ColorNever},
		{"SKILLDEX_COLOR always", "", "always", ColorAlways},
		{"SKILLDEX_COLOR force", "", "force", ColorAlways},
		{"SKILLDEX_COLOR never", "", "never", ColorNever},
		{"SKILLDEX_COLOR off", "", "off", ColorNever},
		{"default auto", "", "", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLDEX_COLOR", tt.skilldexColor)
			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	p, output, errorOutput := newTestPresenter()

	p.Error(errors.New("boom"), "failed to load corpus")
	assert.Contains(t, errorOutput.String(), "[ERROR] failed to load corpus: boom")
	assert.Empty(t, output.String())

	errorOutput.Reset()
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errorOutput.String(), "[ERROR] boom")

	errorOutput.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errorOutput.String())
}

func TestSuccess(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Success("corpus is clean")
	assert.Contains(t, output.String(), "✓ corpus is clean")
}

func TestWarning(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Warning("2 warnings found")
	assert.Contains(t, output.String(), "⚠ 2 warnings found")
}

func TestInfo(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Info("42 documents loaded")
	assert.Equal(t, "42 documents loaded\n", output.String())
}

func TestSection(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Section("Skills")
	assert.Contains(t, output.String(), "Skills\n------\n")
}

func TestSeparator(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Separator()
	assert.Contains(t, output.String(), "----")
}

func TestQuietMode(t *testing.T) {
	p, output, errorOutput := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Separator()
	assert.Empty(t, output.String())

	// Errors always surface
	p.Error(errors.New("boom"), "still shown")
	assert.Contains(t, errorOutput.String(), "boom")

	p.SetQuiet(false)
	p.Info("visible again")
	assert.Contains(t, output.String(), "visible again")
}
