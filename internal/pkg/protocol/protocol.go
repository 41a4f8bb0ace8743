// Package protocol defines the wire messages exchanged between canvas
// clients and the server.
//
// Messages travel as JSON text frames: an envelope carrying a kind tag and
// a typed payload. Decode produces a Message with exactly one payload
// field set, matching the kind, so handlers can switch exhaustively.
package protocol

import (
	"encoding/json"

	"place/internal/pkg/board"

	"github.com/pkg/errors"
)

// Kind tags a wire message.
type Kind string

// Wire message kinds.
const (
	// KindLogin is a client request to join with a display name.
	KindLogin Kind = "LOGIN"
	// KindLoginSuccess confirms a join; the session is now live.
	KindLoginSuccess Kind = "LOGIN_SUCCESS"
	// KindError reports a fatal condition; the connection will close.
	KindError Kind = "ERROR"
	// KindBoard carries the full grid snapshot, sent once after login.
	KindBoard Kind = "BOARD"
	// KindChangeTile is a client request to paint a cell.
	KindChangeTile Kind = "CHANGE_TILE"
	// KindTileChanged broadcasts a committed tile to every session.
	KindTileChanged Kind = "TILE_CHANGED"
)

// ErrUnknownKind is returned when a message carries an unrecognized kind.
var ErrUnknownKind = errors.New("unknown message kind")

// ErrInvalidColor is returned when a change requests a color outside the palette.
var ErrInvalidColor = errors.New("color index outside palette")

// Login is the payload of a LOGIN message.
type Login struct {
	Name string `json:"name"`
}

// LoginSuccess is the payload of a LOGIN_SUCCESS message.
type LoginSuccess struct {
	Name string `json:"name"`
}

// Error is the payload of an ERROR message.
type Error struct {
	Text string `json:"text"`
}

// Board is the payload of a BOARD message: a point-in-time copy of the grid.
type Board struct {
	Dim   int            `json:"dim"`
	Tiles [][]board.Tile `json:"tiles"`
}

// ChangeTile is the payload of a CHANGE_TILE message.
type ChangeTile struct {
	Row   int         `json:"row"`
	Col   int         `json:"col"`
	Color board.Color `json:"color"`
}

// TileChanged is the payload of a TILE_CHANGED message.
type TileChanged struct {
	Tile board.Tile `json:"tile"`
}

// Message is a decoded wire message: the kind plus exactly one non-nil
// payload corresponding to it.
type Message struct {
	Kind         Kind
	Login        *Login
	LoginSuccess *LoginSuccess
	Error        *Error
	Board        *Board
	ChangeTile   *ChangeTile
	TileChanged  *TileChanged
}

// envelope is the JSON shape on the wire.
type envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewLogin builds a LOGIN message.
func NewLogin(name string) Message {
	return Message{Kind: KindLogin, Login: &Login{Name: name}}
}

// NewLoginSuccess builds a LOGIN_SUCCESS message.
func NewLoginSuccess(name string) Message {
	return Message{Kind: KindLoginSuccess, LoginSuccess: &LoginSuccess{Name: name}}
}

// NewError builds an ERROR message.
func NewError(text string) Message {
	return Message{Kind: KindError, Error: &Error{Text: text}}
}

// NewBoard builds a BOARD message from a grid snapshot.
func NewBoard(tiles [][]board.Tile) Message {
	return Message{Kind: KindBoard, Board: &Board{Dim: len(tiles), Tiles: tiles}}
}

// NewChangeTile builds a CHANGE_TILE message.
func NewChangeTile(row, col int, color board.Color) Message {
	return Message{Kind: KindChangeTile, ChangeTile: &ChangeTile{Row: row, Col: col, Color: color}}
}

// NewTileChanged builds a TILE_CHANGED message.
func NewTileChanged(tile board.Tile) Message {
	return Message{Kind: KindTileChanged, TileChanged: &TileChanged{Tile: tile}}
}

// Encode serializes the message for the wire.
func Encode(msg Message) ([]byte, error) {
	var payload any
	switch msg.Kind {
	case KindLogin:
		payload = msg.Login
	case KindLoginSuccess:
		payload = msg.LoginSuccess
	case KindError:
		payload = msg.Error
	case KindBoard:
		payload = msg.Board
	case KindChangeTile:
		payload = msg.ChangeTile
	case KindTileChanged:
		payload = msg.TileChanged
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "encode %q failed", msg.Kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload failed")
	}
	raw, err := json.Marshal(envelope{Kind: msg.Kind, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "marshal envelope failed")
	}
	return raw, nil
}

// Decode parses a wire frame into a typed Message. A malformed frame, an
// unknown kind, or an out-of-palette color index is an error; the caller
// treats any error as a protocol violation and closes the session.
func Decode(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Message{}, errors.Wrap(err, "unmarshal envelope failed")
	}
	msg := Message{Kind: env.Kind}
	var payload any
	switch env.Kind {
	case KindLogin:
		msg.Login = &Login{}
		payload = msg.Login
	case KindLoginSuccess:
		msg.LoginSuccess = &LoginSuccess{}
		payload = msg.LoginSuccess
	case KindError:
		msg.Error = &Error{}
		payload = msg.Error
	case KindBoard:
		msg.Board = &Board{}
		payload = msg.Board
	case KindChangeTile:
		msg.ChangeTile = &ChangeTile{}
		payload = msg.ChangeTile
	case KindTileChanged:
		msg.TileChanged = &TileChanged{}
		payload = msg.TileChanged
	default:
		return Message{}, errors.Wrapf(ErrUnknownKind, "decode %q failed", env.Kind)
	}
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return Message{}, errors.Wrapf(err, "unmarshal %s payload failed", env.Kind)
	}
	if msg.ChangeTile != nil && !msg.ChangeTile.Color.Valid() {
		return Message{}, errors.Wrapf(ErrInvalidColor, "decode %s failed", env.Kind)
	}
	if msg.TileChanged != nil && !msg.TileChanged.Tile.Color.Valid() {
		return Message{}, errors.Wrapf(ErrInvalidColor, "decode %s failed", env.Kind)
	}
	return msg, nil
}
