// Package vtubestudio drives a VTube Studio avatar through its public
// websocket API.
package vtubestudio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Gorgooo61/AI-character/pkg/animation"
	"github.com/Gorgooo61/AI-character/pkg/logger"
)

const (
	DefaultURL             = "ws://localhost:8001"
	DefaultPluginName      = "AI VTS Plugin"
	DefaultPluginDeveloper = "Gorgooo61"
	DefaultTokenPath       = "./vtubeStudio_token.txt"

	defaultTimeout = 10 * time.Second
)

var (
	// ErrAPI wraps an APIError reply.
	ErrAPI = errors.New("vtube studio api error")

	// ErrNotAuthenticated is returned when VTube Studio rejects the token.
	ErrNotAuthenticated = errors.New("vtube studio authentication rejected")
)

// Config holds configuration for the VTube Studio driver.
type Config struct {
	URL             string
	PluginName      string
	PluginDeveloper string

	// TokenPath persists the authentication token between runs. Empty
	// disables persistence.
	TokenPath string

	// Timeout bounds dialing and each request/response exchange.
	Timeout time.Duration
}

// Driver connects lazily on the first Trigger and reconnects after a
// failed exchange. Requests are serialized.
type Driver struct {
	cfg    Config
	logger *slog.Logger
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int
	closed bool
}

// New creates a Driver without connecting.
func New(c Config, log *slog.Logger) *Driver {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.PluginName == "" {
		c.PluginName = DefaultPluginName
	}
	if c.PluginDeveloper == "" {
		c.PluginDeveloper = DefaultPluginDeveloper
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return &Driver{
		cfg:    c,
		logger: logger.OrNop(log),
		dialer: &websocket.Dialer{HandshakeTimeout: c.Timeout},
	}
}

// Trigger fires hotkey, connecting and authenticating first if needed.
func (d *Driver) Trigger(ctx context.Context, hotkey string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return animation.ErrStopped
	}
	if d.conn == nil {
		if err := d.connect(ctx); err != nil {
			return err
		}
	}

	var resp envelope
	if err := d.request(msgHotkeyTrigger, hotkeyRequest{HotkeyID: hotkey}, &resp); err != nil {
		d.reset()
		return fmt.Errorf("triggering hotkey %q: %w", hotkey, err)
	}
	if err := asAPIError(resp); err != nil {
		return fmt.Errorf("triggering hotkey %q: %w", hotkey, err)
	}
	d.logger.Debug("triggered vtube studio hotkey", "hotkey", hotkey)
	return nil
}

// Close closes the websocket. Later Triggers return animation.ErrStopped.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.conn == nil {
		return nil
	}
	_ = d.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *Driver) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	conn, _, err := d.dialer.DialContext(ctx, d.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("connecting to vtube studio at %s: %w", d.cfg.URL, err)
	}
	d.conn = conn

	if err := d.authenticate(); err != nil {
		d.reset()
		return err
	}
	d.logger.Info("connected to vtube studio", "url", d.cfg.URL)
	return nil
}

// authenticate tries the persisted token first and requests a fresh one
// when it is missing or rejected.
func (d *Driver) authenticate() error {
	if token := d.loadToken(); token != "" {
		ok, err := d.authWith(token)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		d.logger.Warn("stored vtube studio token rejected, requesting a new one")
	}

	var resp envelope
	err := d.request(msgTokenRequest, tokenRequest{
		PluginName:      d.cfg.PluginName,
		PluginDeveloper: d.cfg.PluginDeveloper,
	}, &resp)
	if err != nil {
		return fmt.Errorf("requesting token: %w", err)
	}
	if err := asAPIError(resp); err != nil {
		return fmt.Errorf("requesting token: %w", err)
	}
	var tok tokenResponse
	if err := json.Unmarshal(resp.Data, &tok); err != nil || tok.AuthenticationToken == "" {
		return fmt.Errorf("requesting token: %w", ErrNotAuthenticated)
	}
	d.saveToken(tok.AuthenticationToken)

	ok, err := d.authWith(tok.AuthenticationToken)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAuthenticated
	}
	return nil
}

func (d *Driver) authWith(token string) (bool, error) {
	var resp envelope
	err := d.request(msgAuthRequest, authRequest{
		PluginName:          d.cfg.PluginName,
		PluginDeveloper:     d.cfg.PluginDeveloper,
		AuthenticationToken: token,
	}, &resp)
	if err != nil {
		return false, fmt.Errorf("authenticating: %w", err)
	}
	if err := asAPIError(resp); err != nil {
		return false, nil
	}
	var auth authResponse
	if err := json.Unmarshal(resp.Data, &auth); err != nil {
		return false, fmt.Errorf("decoding authentication response: %w", err)
	}
	return auth.Authenticated, nil
}

// request writes one envelope and reads replies until the matching
// requestID arrives.
func (d *Driver) request(messageType string, data any, out *envelope) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", messageType, err)
	}
	d.nextID++
	id := "character-" + strconv.Itoa(d.nextID)

	deadline := time.Now().Add(d.cfg.Timeout)
	_ = d.conn.SetWriteDeadline(deadline)
	_ = d.conn.SetReadDeadline(deadline)

	err = d.conn.WriteJSON(envelope{
		APIName:     apiName,
		APIVersion:  apiVersion,
		RequestID:   id,
		MessageType: messageType,
		Data:        payload,
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", messageType, err)
	}

	for {
		var resp envelope
		if err := d.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("reading %s response: %w", messageType, err)
		}
		if resp.RequestID == id || resp.RequestID == "" {
			*out = resp
			return nil
		}
	}
}

func (d *Driver) reset() {
	if d.conn != nil {
		_ = d.conn.Close()
		d.conn = nil
	}
}

func (d *Driver) loadToken() string {
	if d.cfg.TokenPath == "" {
		return ""
	}
	b, err := os.ReadFile(d.cfg.TokenPath)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn("reading vtube studio token", "path", d.cfg.TokenPath, "error", err)
		}
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (d *Driver) saveToken(token string) {
	if d.cfg.TokenPath == "" {
		return
	}
	if dir := filepath.Dir(d.cfg.TokenPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			d.logger.Warn("creating vtube studio token dir", "path", dir, "error", err)
			return
		}
	}
	if err := os.WriteFile(d.cfg.TokenPath, []byte(token), 0o600); err != nil {
		d.logger.Warn("saving vtube studio token", "path", d.cfg.TokenPath, "error", err)
	}
}

func asAPIError(resp envelope) error {
	if resp.MessageType != msgAPIError {
		return nil
	}
	var e apiError
	_ = json.Unmarshal(resp.Data, &e)
	if e.Message == "" {
		e.Message = "unknown"
	}
	return fmt.Errorf("%w: %s (id %d)", ErrAPI, e.Message, e.ErrorID)
}

var _ animation.Driver = (*Driver)(nil)
