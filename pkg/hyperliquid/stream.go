package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/StudioSol/set"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/logger"
)

const handshakeTimeout = 10 * time.Second

// MessageHandler consumes one raw frame from the feed. It must contain its
// own failures; a handler error never stops the read loop.
type MessageHandler func(raw []byte)

// Stream owns the single long-lived streaming connection to the venue.
// Subscription intent is kept as desired state: every wallet ever subscribed
// stays in the set and is replayed on each (re)connect, so wallets added
// while disconnected are picked up as soon as the connection is back.
type Stream struct {
	url          string
	writeTimeout time.Duration
	handler      MessageHandler
	log          logger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	desired   *set.LinkedHashSetString

	writeMu sync.Mutex
}

func NewStream(settings core.HyperliquidSettings, handler MessageHandler, log logger.Logger) *Stream {
	return &Stream{
		url:          settings.WSURL,
		writeTimeout: settings.WriteTimeout,
		handler:      handler,
		log:          log,
		desired:      set.NewLinkedHashSetString(),
	}
}

// SubscribeWallet records the wallet in the desired set and, when the
// connection is live, opens its channels immediately.
func (s *Stream) SubscribeWallet(address string) {
	s.mu.Lock()
	s.desired.Add(address)
	conn, connected := s.conn, s.connected
	s.mu.Unlock()

	if !connected {
		s.log.Debugf("feed not connected yet, %s will be subscribed on connect", address)
		return
	}

	if err := s.subscribe(conn, address); err != nil {
		s.log.WithError(err).Warnf("failed to subscribe %s, will retry on reconnect", address)
	}
}

// Run connects and consumes the feed until the context is canceled,
// re-dialing forever on unexpected closes.
func (s *Stream) Run(ctx context.Context) {
	retry := &backoff.Backoff{Min: time.Second, Max: 30 * time.Second, Jitter: true}

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.connect(ctx)
		if err != nil {
			wait := retry.Duration()
			s.log.WithError(err).Warnf("feed connection failed, retrying in %s", wait)

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}

		retry.Reset()
		s.readLoop(ctx, conn)
	}
}

// connect dials the feed and replays the full desired subscription set.
func (s *Stream) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	s.log.Infof("feed connected to %s", s.url)

	s.mu.Lock()
	var addresses []string
	for address := range s.desired.Iter() {
		addresses = append(addresses, address)
	}
	s.mu.Unlock()

	for _, address := range addresses {
		if err := s.subscribe(conn, address); err != nil {
			s.log.WithError(err).Warnf("failed to resubscribe %s", address)
		}
	}

	return conn, nil
}

// subscribe opens every tracked channel for one wallet.
func (s *Stream) subscribe(conn *websocket.Conn, address string) error {
	for _, channel := range []string{ChannelOrderUpdates, ChannelUserEvents, ChannelUserFills} {
		frame, err := json.Marshal(subscribeRequest{
			Method:       "subscribe",
			Subscription: subscription{Type: channel, User: address},
		})
		if err != nil {
			return fmt.Errorf("failed to marshal subscribe request: %w", err)
		}

		if err := s.send(conn, frame); err != nil {
			return fmt.Errorf("failed to subscribe %s to %s: %w", address, channel, err)
		}

		s.log.Infof("subscribed to %s for %s", channel, address)
	}

	return nil
}

func (s *Stream) send(conn *websocket.Conn, frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// readLoop delivers frames to the handler until the connection drops or the
// context ends.
func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		s.connected = false
		s.conn = nil
		s.mu.Unlock()
		conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.log.WithError(err).Warn("feed connection lost")
			}
			return
		}

		s.handler(raw)
	}
}
