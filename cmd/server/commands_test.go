package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "plataforma-ensino-api", cmd.Use)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestSeedCmd_ResetFlag(t *testing.T) {
	cmd := newSeedCmd()

	flag := cmd.Flags().Lookup("reset")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
