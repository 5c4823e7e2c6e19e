package wmPubsub

import (
	"context"

	"pixeltrader/pkg/types/pubsub"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidPubSubConfig = errors.New("invalid pubsub config")
)

var (
	_ pubsub.PubSub         = (*PubSub)(nil)
	_ pubsub.LossyPublisher = (*PubSub)(nil)
)

type PubSub struct {
	topic   string
	ch      chan []byte
	ctx     context.Context
	logger  zerolog.Logger
	handler func([]byte) error
}

type Option func(*PubSub)

func WithContext(ctx context.Context) Option {
	return func(ps *PubSub) {
		ps.ctx = ctx
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(ps *PubSub) {
		ps.logger = l
	}
}

func WithTopic(topic string) Option {
	return func(ps *PubSub) {
		ps.topic = topic
	}
}

func WithHandler(h func([]byte) error) Option {
	return func(ps *PubSub) {
		ps.handler = h
	}
}

func WithChannel(ch chan []byte) Option {
	return func(ps *PubSub) {
		ps.ch = ch
	}
}

func (ps *PubSub) IsValid() error {
	switch {
	case ps.ctx == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "ctx cannot be nil")
	case ps.topic == "":
		return errors.Wrap(ErrInvalidPubSubConfig, "topic cannot be empty")
	case ps.ch == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "channel cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) *PubSub {
	ps := &PubSub{
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(ps)
	}

	ps.logger = ps.logger.With().Str("component", "pubsub").Str("topic", ps.topic).Logger()
	return ps
}

func (ps *PubSub) Publish(payload []byte) error {
	if err := ps.IsValid(); err != nil {
		return err
	}

	select {
	case ps.ch <- payload:
		return nil
	case <-ps.ctx.Done():
		return ps.ctx.Err()
	}
}

func (ps *PubSub) TryPublish(payload []byte) bool {
	if ps.IsValid() != nil || ps.ctx.Err() != nil {
		return false
	}

	select {
	case ps.ch <- payload:
		return true
	default:
		ps.logger.Warn().Int("bytes", len(payload)).Msg("topic full, dropping message")
		return false
	}
}

func (ps *PubSub) Subscribe() error {
	if err := ps.IsValid(); err != nil {
		return err
	}
	if ps.handler == nil {
		return errors.Wrap(ErrInvalidPubSubConfig, "handler cannot be nil")
	}

	go func() {
		for {
			select {
			case msg := <-ps.ch:
				if err := ps.handler(msg); err != nil {
					ps.logger.Error().Err(err).Msg("pubsub handler error")
				}
			case <-ps.ctx.Done():
				return
			}
		}
	}()

	return nil
}
