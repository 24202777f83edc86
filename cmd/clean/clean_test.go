package clean_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/stmt-clean/cmd/clean"
)

func TestCleanCommand_Metadata(t *testing.T) {
	assert.Equal(t, "clean", clean.Cmd.Use)
	assert.Contains(t, clean.Cmd.Short, "single statement")
	assert.Contains(t, clean.Cmd.Long, "Example")
	assert.NotNil(t, clean.Cmd.Run)
}

func TestCleanCommand_Flags(t *testing.T) {
	input := clean.Cmd.Flags().Lookup("input")
	if assert.NotNil(t, input) {
		assert.Equal(t, "i", input.Shorthand)
	}
	output := clean.Cmd.Flags().Lookup("output")
	if assert.NotNil(t, output) {
		assert.Equal(t, "o", output.Shorthand)
	}
	debug := clean.Cmd.Flags().Lookup("debug")
	if assert.NotNil(t, debug) {
		assert.Equal(t, "false", debug.DefValue)
	}
	assert.NotNil(t, clean.Cmd.Flags().Lookup("report"))
}
