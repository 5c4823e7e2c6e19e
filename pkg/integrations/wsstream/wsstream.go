// Package wsstream runs websocket sessions against combined ticker
// streams and decodes each frame into partial market tickers.
package wsstream

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"pixeltrader/pkg/types/market"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultPingPeriod       = 15 * time.Second
	defaultSendTimeout      = 5 * time.Second
	defaultReadLimit        = 8 << 20 // the all-market array is large
	defaultHandshakeTimeout = 10 * time.Second
)

var (
	ErrDial         = errors.New("websocket dial failed")
	ErrInvalidFrame = errors.New("invalid ticker frame")
)

var _ market.Streamer = (*Streamer)(nil)

// envelope is the combined-stream wrapper: {"stream": "...", "data": ...}.
type envelope struct {
	Stream string          `json:"stream" validate:"required"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

// tick is one entry of a !ticker@arr payload.
type tick struct {
	Symbol    string `json:"s" validate:"required"`
	Close     string `json:"c" validate:"required,numeric"`
	Volume    string `json:"q" validate:"required,numeric"`
	ChangePct string `json:"P" validate:"required,numeric"`
}

type Streamer struct {
	dialer      *websocket.Dialer
	header      http.Header
	pingPeriod  time.Duration
	sendTimeout time.Duration
	readLimit   int64
	validate    *validator.Validate
	logger      zerolog.Logger
}

type Option func(*Streamer)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Streamer) {
		s.logger = l
	}
}

func WithPingPeriod(d time.Duration) Option {
	return func(s *Streamer) {
		s.pingPeriod = d
	}
}

func WithHandshakeTimeout(d time.Duration) Option {
	return func(s *Streamer) {
		s.dialer.HandshakeTimeout = d
	}
}

func WithReadLimit(n int64) Option {
	return func(s *Streamer) {
		s.readLimit = n
	}
}

func New(opts ...Option) *Streamer {
	s := &Streamer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		header:      http.Header{},
		pingPeriod:  defaultPingPeriod,
		sendTimeout: defaultSendTimeout,
		readLimit:   defaultReadLimit,
		validate:    validator.New(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "wsstream").Logger()
	return s
}

// Stream dials endpoint and reads frames until the connection drops or
// ctx is cancelled. Undecodable frames are skipped.
func (s *Streamer) Stream(ctx context.Context, endpoint string, onOpen func(), onBatch func([]market.Ticker)) error {
	logger := s.logger.With().Str("endpoint", endpoint).Logger()

	conn, resp, err := s.dialer.DialContext(ctx, endpoint, s.header)
	if err != nil {
		if resp != nil {
			return errors.Wrapf(ErrDial, "%s: status %d: %v", endpoint, resp.StatusCode, err)
		}
		return errors.Wrapf(ErrDial, "%s: %v", endpoint, err)
	}
	defer conn.Close()

	conn.SetReadLimit(s.readLimit)
	logger.Info().Msg("stream connected")
	if onOpen != nil {
		onOpen()
	}

	stop := make(chan struct{})
	defer close(stop)
	go s.pingLoop(conn, stop, logger)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info().Err(err).Msg("stream closed")
			} else {
				logger.Warn().Err(err).Msg("stream read error")
			}
			return err
		}

		batch, err := s.Decode(data)
		if err != nil {
			logger.Debug().Err(err).Int("bytes", len(data)).Msg("skipping frame")
			continue
		}
		if len(batch) > 0 && onBatch != nil {
			s.deliver(onBatch, batch, logger)
		}
	}
}

func (s *Streamer) deliver(onBatch func([]market.Ticker), batch []market.Ticker, logger zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Any("recover", r).Msg("panic in batch handler")
		}
	}()
	onBatch(batch)
}

func (s *Streamer) pingLoop(conn *websocket.Conn, stop <-chan struct{}, logger zerolog.Logger) {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.sendTimeout)); err != nil {
				logger.Debug().Err(err).Msg("ping error")
			}
		case <-stop:
			return
		}
	}
}

// Decode accepts a combined-stream envelope or a bare payload, each
// holding a single ticker object or an array of them.
func (s *Streamer) Decode(frame []byte) ([]market.Ticker, error) {
	payload := bytes.TrimSpace(frame)
	if len(payload) > 0 && payload[0] == '{' {
		var env envelope
		if err := json.Unmarshal(payload, &env); err == nil && s.validate.Struct(env) == nil {
			payload = bytes.TrimSpace(env.Data)
		}
	}
	if len(payload) == 0 {
		return nil, errors.Wrap(ErrInvalidFrame, "empty payload")
	}

	var ticks []tick
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &ticks); err != nil {
			return nil, errors.Wrap(ErrInvalidFrame, err.Error())
		}
	} else {
		var one tick
		if err := json.Unmarshal(payload, &one); err != nil {
			return nil, errors.Wrap(ErrInvalidFrame, err.Error())
		}
		ticks = []tick{one}
	}

	out := make([]market.Ticker, 0, len(ticks))
	for _, t := range ticks {
		if err := s.validate.Struct(t); err != nil {
			continue
		}
		out = append(out, market.Ticker{
			Symbol:    t.Symbol,
			Price:     decimal.RequireFromString(t.Close),
			Volume:    decimal.RequireFromString(t.Volume),
			Change24h: decimal.RequireFromString(t.ChangePct),
		})
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrInvalidFrame, "no valid tickers")
	}
	return out, nil
}
