package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Wiring(t *testing.T) {
	root := newRootCmd()

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.yaml", flag.DefValue)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "export")
	assert.Contains(t, names, "list")
}

func TestServeCommand_NoBrowserFlag(t *testing.T) {
	configFile := "config.yaml"
	serve := newServeCmd(&configFile)

	flag := serve.Flags().Lookup("no-browser")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestExportCommand_ArgLimit(t *testing.T) {
	configFile := "config.yaml"
	export := newExportCmd(&configFile)

	assert.NoError(t, export.Args(export, []string{"out.csv"}))
	assert.Error(t, export.Args(export, []string{"a", "b"}))
}
