// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/cinegraph/internal/config"
)

var (
	// ErrNATSNotEnabled is returned when the NATS broker is selected in a
	// binary built without the nats tag.
	ErrNATSNotEnabled = errors.New("NATS event broker not enabled (build with -tags nats)")

	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("publisher is closed")
)

// Bus is a connected Watermill publisher and subscriber pair.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	closers    []func() error
}

// Close shuts down both halves of the bus.
func (b *Bus) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewMemoryBus returns an in-process bus. Publish returns once every
// subscriber has acked the message, so events published one after another
// are consumed in the same order. With no subscribers it returns at once.
func NewMemoryBus(logger watermill.LoggerAdapter) *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            256,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
	return &Bus{Publisher: ch, Subscriber: ch, closers: []func() error{ch.Close}}
}

// NewBus connects to the broker selected by cfg.Broker.
func NewBus(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	switch cfg.Broker {
	case config.BrokerMemory, "":
		return NewMemoryBus(logger), nil
	case config.BrokerNATS:
		return newNATSBus(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.Broker)
	}
}
