package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// DrainTimeout bounds how long Close waits for queued engage messages and
// running handlers before the connection is torn down.
const DrainTimeout = 20 * time.Second

// Client is martha's bus connection: JSON events out, engage requests in.
type Client struct {
	conn      *nats.Conn
	logger    *slog.Logger
	closed    chan struct{}
	closeOnce sync.Once
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	c := &Client{logger: logger, closed: make(chan struct{})}

	opts := []nats.Option{
		nats.Name("martha"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DrainTimeout(DrainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(c.closed)
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	c.conn = nc
	return c, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	return c.conn.Publish(subject, payload)
}

// Subscribe delivers each message on subject to handler. Messages are
// handled one at a time in arrival order.
func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	if _, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// Close drains the connection and blocks until it is closed: queued messages
// are handled, running handlers return, then pending publishes are flushed.
// Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(c.drain)
}

func (c *Client) drain() {
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("nats drain failed, closing", "error", err)
		c.conn.Close()
	}

	select {
	case <-c.closed:
		c.logger.Info("nats drained")
	case <-time.After(DrainTimeout + time.Second):
		c.logger.Warn("nats drain did not finish, closing", "timeout", DrainTimeout)
		c.conn.Close()
	}
}
