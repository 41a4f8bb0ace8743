package client

import (
	"context"
	"fmt"
	"sync"

	"place/internal/pkg/board"
	"place/internal/pkg/log"
	"place/internal/pkg/protocol"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Client implements the client side of the place protocol: it logs in
// with a display name, mirrors the board locally from the snapshot and
// the change stream, and submits tile changes.
type Client struct {
	serverURL string
	name      string

	conn *websocket.Conn

	mu    sync.RWMutex
	tiles [][]board.Tile
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerPort targets a local server on the given port.
func WithServerPort(p uint16) Cfg {
	return func(c *Client) error {
		c.serverURL = fmt.Sprintf("ws://localhost:%d/ws", p)
		return nil
	}
}

// WithServerURL sets the full websocket URL to connect to.
func WithServerURL(url string) Cfg {
	return func(c *Client) error {
		c.serverURL = url
		return nil
	}
}

// WithName sets the display name to log in with.
func WithName(name string) Cfg {
	return func(c *Client) error {
		c.name = name
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	if client.serverURL == "" {
		return nil, errors.New("server URL required")
	}
	if client.name == "" {
		return nil, errors.New("display name required")
	}
	return client, nil
}

// Connect dials the server and performs the login handshake. On return
// the local board mirrors the server's snapshot and every subsequent
// Receive folds the change stream into it.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.serverURL, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s failed", c.serverURL)
	}
	c.conn = conn

	if err := c.send(protocol.NewLogin(c.name)); err != nil {
		return errors.Wrap(err, "send login failed")
	}
	msg, err := c.receive()
	if err != nil {
		return errors.Wrap(err, "receive login reply failed")
	}
	switch msg.Kind {
	case protocol.KindLoginSuccess:
	case protocol.KindError:
		return errors.Wrapf(ErrLoginRejected, "%s", msg.Error.Text)
	default:
		return errors.Errorf("expected %s, got %s", protocol.KindLoginSuccess, msg.Kind)
	}

	msg, err = c.receive()
	if err != nil {
		return errors.Wrap(err, "receive board failed")
	}
	if msg.Kind != protocol.KindBoard {
		return errors.Errorf("expected %s, got %s", protocol.KindBoard, msg.Kind)
	}
	c.mu.Lock()
	c.tiles = msg.Board.Tiles
	c.mu.Unlock()
	logger.WithFields(logrus.Fields{"name": c.name, "dim": msg.Board.Dim}).Info("logged in")
	return nil
}

// SendChange submits a request to paint one cell. The server confirms it
// with a TILE_CHANGED broadcast; nothing is predicted locally.
func (c *Client) SendChange(row, col int, color board.Color) error {
	return errors.Wrap(c.send(protocol.NewChangeTile(row, col, color)), "send change failed")
}

// SendRaw writes a pre-encoded frame. Tests use it to exercise the
// server's handling of out-of-order and malformed messages.
func (c *Client) SendRaw(raw []byte) error {
	return errors.Wrap(c.conn.WriteMessage(websocket.TextMessage, raw), "send raw failed")
}

// Receive blocks for the next server message. A TILE_CHANGED is folded
// into the local board before being returned.
func (c *Client) Receive() (protocol.Message, error) {
	msg, err := c.receive()
	if err != nil {
		return protocol.Message{}, err
	}
	if msg.Kind == protocol.KindTileChanged {
		tile := msg.TileChanged.Tile
		c.mu.Lock()
		if tile.Row >= 0 && tile.Row < len(c.tiles) && tile.Col >= 0 && tile.Col < len(c.tiles) {
			c.tiles[tile.Row][tile.Col] = tile
		}
		c.mu.Unlock()
		logger.WithFields(log.TileToFields(tile)).Debug("tile changed")
	}
	return msg, nil
}

// Dim returns the board dimension learned from the snapshot.
func (c *Client) Dim() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tiles)
}

// Tile returns the local view of one cell.
func (c *Client) Tile(row, col int) board.Tile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tiles[row][col]
}

// Board returns a copy of the local board view.
func (c *Client) Board() [][]board.Tile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tiles := make([][]board.Tile, len(c.tiles))
	for row := range c.tiles {
		tiles[row] = make([]board.Tile, len(c.tiles[row]))
		copy(tiles[row], c.tiles[row])
	}
	return tiles
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return errors.Wrap(c.conn.Close(), "close connection failed")
}

func (c *Client) send(msg protocol.Message) error {
	raw, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

func (c *Client) receive() (protocol.Message, error) {
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return protocol.Message{}, errors.Wrap(err, "read message failed")
	}
	return protocol.Decode(raw)
}
