package remoteloc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/urlstore"
)

var _ urlstore.Location = (*Location)(nil)

// Config holds Location settings.
type Config struct {
	// ReadLimit is the largest inbound message in bytes. Default: 64 KiB.
	ReadLimit int64

	// HandshakeTimeout bounds the wait for the first location snapshot.
	// Default: 10s.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds every outbound write. Default: 5s.
	WriteTimeout time.Duration

	// Logger receives protocol errors. Default: slog.Default().
	Logger *slog.Logger
}

// Option configures a Location.
type Option func(*Config)

// WithReadLimit sets the largest accepted inbound message.
func WithReadLimit(n int64) Option {
	return func(c *Config) {
		c.ReadLimit = n
	}
}

// WithHandshakeTimeout sets how long Handshake waits for the snapshot.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.HandshakeTimeout = d
	}
}

// WithWriteTimeout sets the deadline applied to each outbound message.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func defaultConfig() Config {
	return Config{
		ReadLimit:        64 * 1024,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		Logger:           slog.Default(),
	}
}

// Location is a urlstore.Location mirrored from a browser over a
// websocket. The change handler runs on the goroutine that calls Serve;
// a Store attached to the Location must only be used from that goroutine.
type Location struct {
	conn   *websocket.Conn
	config Config

	mu       sync.Mutex
	protocol string
	host     string
	path     string
	query    string
	fragment string
	onChange func()

	// writeMu serializes writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

// New wraps conn. Call Handshake before handing the Location to a Store.
func New(conn *websocket.Conn, opts ...Option) *Location {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	conn.SetReadLimit(config.ReadLimit)
	return &Location{conn: conn, config: config}
}

// Handshake reads the initial location snapshot. Any other first message
// fails with E160.
func (l *Location) Handshake(ctx context.Context) error {
	deadline := time.Now().Add(l.config.HandshakeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = l.conn.SetReadDeadline(deadline)
	defer l.conn.SetReadDeadline(time.Time{})

	_, data, err := l.conn.ReadMessage()
	if err != nil {
		return errors.New("E161").Wrap(err)
	}
	msg, err := DecodeMessage(data)
	if err != nil {
		return err
	}
	if msg.Type != TypeLocation {
		return errors.New("E160").
			WithInput(string(data), -1).
			WithDetail("The first message must be a location snapshot.")
	}
	l.apply(msg)
	return nil
}

// Serve reads browser messages until the connection closes or ctx is
// done. Malformed messages are logged and skipped. A normal close returns
// nil.
func (l *Location) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		l.close(websocket.CloseGoingAway, "server shutting down")
	})
	defer stop()

	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				return nil
			}
			return errors.New("E161").Wrap(err)
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			l.config.Logger.Warn("remoteloc: invalid message", "error", err)
			continue
		}
		if l.apply(msg) {
			l.notify()
		}
	}
}

// apply stores msg and reports whether the fragment changed.
func (l *Location) apply(msg Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.fragment
	if msg.Type == TypeLocation {
		l.protocol = msg.Protocol
		l.host = msg.Host
		l.path = msg.Path
		l.query = msg.Query
	}
	l.fragment = msg.Fragment
	if l.fragment == "#" {
		l.fragment = ""
	}
	return l.fragment != before
}

func (l *Location) notify() {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (l *Location) Protocol() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.protocol
}

func (l *Location) Host() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.host
}

func (l *Location) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

func (l *Location) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

func (l *Location) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

// ReplaceFragment updates the local copy and tells the browser to replace
// its fragment. Send failures are logged; the next Serve read reports the
// broken connection.
func (l *Location) ReplaceFragment(fragment string) {
	if fragment != "" {
		fragment = "#" + fragment
	}
	l.mu.Lock()
	l.fragment = fragment
	l.mu.Unlock()

	l.send(Message{Type: TypeReplaceFragment, Fragment: fragment})
}

// ClearQuery drops the local query and tells the browser to do the same.
func (l *Location) ClearQuery() {
	l.mu.Lock()
	l.query = ""
	l.mu.Unlock()

	l.send(Message{Type: TypeClearQuery})
}

// SetFragmentChangeHandler registers fn.
func (l *Location) SetFragmentChangeHandler(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

func (l *Location) send(msg Message) {
	data, err := msg.Encode()
	if err != nil {
		l.config.Logger.Error("remoteloc: encode failed", "type", msg.Type, "error", err)
		return
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(l.config.WriteTimeout))
	if err := l.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		l.config.Logger.Error("remoteloc: send failed", "type", msg.Type, "error", err)
	}
}

func (l *Location) close(code int, reason string) {
	l.writeMu.Lock()
	_ = l.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(l.config.WriteTimeout))
	l.writeMu.Unlock()
	_ = l.conn.Close()
}

// Close sends a normal close frame and closes the connection.
func (l *Location) Close() error {
	l.close(websocket.CloseNormalClosure, "")
	return nil
}
