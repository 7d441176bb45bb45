// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

//go:build nats

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedServer is an in-process NATS JetStream server for single-node
// deployments that still want durable feed events.
type EmbeddedServer struct {
	server *server.Server
}

// StartEmbeddedServer starts JetStream on a random local port with its
// state under storeDir.
func StartEmbeddedServer(storeDir string) (*EmbeddedServer, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "cinegraph-events",
		Host:       "127.0.0.1",
		Port:       server.RANDOM_PORT,
		JetStream:  true,
		StoreDir:   storeDir,
		NoSigs:     true,
		MaxPayload: 1 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}
	return &EmbeddedServer{server: ns}, nil
}

// ClientURL returns the URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.server.ClientURL()
}

// Close stops the server and waits for it to exit.
func (s *EmbeddedServer) Close() error {
	s.server.Shutdown()
	s.server.WaitForShutdown()
	return nil
}
