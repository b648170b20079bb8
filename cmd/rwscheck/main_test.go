package main

import (
	"bytes"
	"testing"

	"github.com/iwtcode/abbAdapter/rapid"
	"github.com/iwtcode/abbAdapter/rws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignment(t *testing.T) {
	sym, value, err := parseAssignment(`T_ROB1/user/mytext="a=b"`)
	require.NoError(t, err)
	assert.Equal(t, rws.Symbol{Task: "T_ROB1", Module: "user", Name: "mytext"}, sym)
	assert.Equal(t, `"a=b"`, value)

	for _, bad := range []string{"T_ROB1/user/reg1", "T_ROB1/user/reg1=", "reg1=5"} {
		_, _, err := parseAssignment(bad)
		assert.Error(t, err, "присваивание %q", bad)
	}
}

func TestPrintAs(t *testing.T) {
	target := &rapid.Pos{X: 1, Y: 2, Z: 3}

	var buf bytes.Buffer
	require.NoError(t, printAs(&buf, "json", "Pos", target))
	assert.Contains(t, buf.String(), "--- Pos ---")
	assert.Contains(t, buf.String(), `"x": 1`)

	buf.Reset()
	require.NoError(t, printAs(&buf, "yaml", "Pos", target))
	assert.Contains(t, buf.String(), "x: 1")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	err := run([]string{"--output", "xml"})
	assert.Error(t, err)
}
