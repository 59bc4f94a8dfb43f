package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoadCmd(t *testing.T) {
	cmd := getLoadCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "load", cmd.Use)
	assert.Contains(t, cmd.Long, "sources.yaml")
	assert.NotNil(t, cmd.RunE)

	tests := []struct {
		name, short, def string
	}{
		{"namespaces", "n", "[]"},
		{"bulk", "b", "false"},
		{"ignore-order", "", "false"},
		{"metrics-file", "m", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "--%s flag should exist", tt.name)
			assert.Equal(t, tt.short, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestGetLoadCmd_HelpText(t *testing.T) {
	cmd := getLoadCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "--bulk")
	assert.Contains(t, helpText, "gnamed load -n entrez,uniprot")
}
