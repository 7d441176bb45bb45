// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

//go:build nats

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/cinegraph/internal/config"
)

// newNATSBus connects a JetStream publisher and subscriber. Every instance
// subscribes without a queue group because each one serves its own
// WebSocket clients and must see every event.
func newNATSBus(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	url := cfg.NATSURL
	var embedded *EmbeddedServer
	if cfg.NATSEmbedded {
		var err error
		if embedded, err = StartEmbeddedServer(cfg.NATSStoreDir); err != nil {
			return nil, err
		}
		url = embedded.ClientURL()
		logger.Info("Embedded NATS server started", watermill.LogFields{"url": url})
	}
	bus, err := connectNATS(url, cfg, logger)
	if err != nil {
		if embedded != nil {
			_ = embedded.Close()
		}
		return nil, err
	}
	if embedded != nil {
		bus.closers = append(bus.closers, embedded.Close)
	}
	return bus, nil
}

func connectNATS(url string, cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("cinegraph"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.Timeout(cfg.PublishTimeout),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true, // outbox replays reuse the message UUID
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:            url,
		AckWaitTimeout: 30 * time.Second,
		CloseTimeout:   10 * time.Second,
		NatsOptions:    natsOpts,
		Unmarshaler:    &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision:    true,
			SubscribeOptions: []natsgo.SubOpt{natsgo.DeliverNew()},
		},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &Bus{Publisher: pub, Subscriber: sub, closers: []func() error{pub.Close, sub.Close}}, nil
}
