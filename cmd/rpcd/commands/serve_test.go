package commands

import (
	"net"
	"testing"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/pkg/rpcserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestRegisterDemoProcedures_LeavesServerOpenForRegistration(t *testing.T) {
	srv, err := rpcserver.NewServer(rpcserver.Config{Port: freePort(t), Workers: 2})
	require.NoError(t, err)
	defer srv.Stop()

	registerDemoProcedures(srv)

	assert.NoError(t, srv.Register("already-registered-is-fine", func(in *payload.Payload) (*payload.Payload, error) {
		return in, nil
	}))
}

func TestRootCmd_HasServeAndVersionSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["version"])
}

func TestServeCmd_FlagsAreRegistered(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, serveCmd.Flags().Lookup("workers"))
}
