// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"errors"
	"time"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/eventprocessor"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/wal"
	"github.com/tomtom215/cinegraph/internal/websocket"
)

// Deps are the components the handlers call into. Engine, Recommender,
// Ranker and Config are required; the rest are optional and only change
// what /health reports and whether the feed WebSocket is offered.
type Deps struct {
	Engine      *social.Engine
	Recommender *recommend.Recommender
	Ranker      *recommend.Ranker
	Config      *config.Config

	Hub       *websocket.Hub
	Publisher *eventprocessor.Publisher
	Outbox    *wal.BadgerWAL
}

// Handler serves every /api/v1 endpoint.
type Handler struct {
	engine      *social.Engine
	recommender *recommend.Recommender
	ranker      *recommend.Ranker
	cfg         *config.Config

	hub       *websocket.Hub
	publisher *eventprocessor.Publisher
	outbox    *wal.BadgerWAL

	startTime time.Time
}

// NewHandler checks deps and builds a handler.
func NewHandler(deps Deps) (*Handler, error) {
	switch {
	case deps.Engine == nil:
		return nil, errors.New("api: engine is required")
	case deps.Recommender == nil:
		return nil, errors.New("api: recommender is required")
	case deps.Ranker == nil:
		return nil, errors.New("api: ranker is required")
	case deps.Config == nil:
		return nil, errors.New("api: config is required")
	}
	return &Handler{
		engine:      deps.Engine,
		recommender: deps.Recommender,
		ranker:      deps.Ranker,
		cfg:         deps.Config,
		hub:         deps.Hub,
		publisher:   deps.Publisher,
		outbox:      deps.Outbox,
		startTime:   time.Now(),
	}, nil
}
