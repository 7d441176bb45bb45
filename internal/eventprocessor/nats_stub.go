// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

//go:build !nats

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/cinegraph/internal/config"
)

func newNATSBus(*config.EventsConfig, watermill.LoggerAdapter) (*Bus, error) {
	return nil, ErrNATSNotEnabled
}
