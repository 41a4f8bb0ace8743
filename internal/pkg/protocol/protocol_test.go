package protocol

import (
	"testing"

	"place/internal/pkg/board"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRoundTripLogin(t *testing.T) {
	raw, err := Encode(NewLogin("alice"))
	require.NoError(t, err)
	msg, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindLogin, msg.Kind)
	require.NotNil(t, msg.Login)
	require.Equal(t, "alice", msg.Login.Name)
	require.Nil(t, msg.ChangeTile)
}

func TestRoundTripTileChanged(t *testing.T) {
	tile := board.Tile{Row: 3, Col: 4, Owner: "alice", Color: 2, Time: 1234}
	raw, err := Encode(NewTileChanged(tile))
	require.NoError(t, err)
	msg, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindTileChanged, msg.Kind)
	require.Equal(t, tile, msg.TileChanged.Tile)
}

func TestRoundTripBoard(t *testing.T) {
	b := board.New(2)
	raw, err := Encode(NewBoard(b.Snapshot()))
	require.NoError(t, err)
	msg, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, 2, msg.Board.Dim)
	require.Len(t, msg.Board.Tiles, 2)
	require.Equal(t, b.Get(1, 0), msg.Board.Tiles[1][0])
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"PAINT_EVERYTHING","data":{}}`))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownKind))
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	require.Error(t, err)
	_, err = Decode([]byte(`{"kind":"LOGIN","data":"not an object"}`))
	require.Error(t, err)
}

func TestDecodeColorOutsidePalette(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"CHANGE_TILE","data":{"row":0,"col":0,"color":16}}`))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidColor))
}

func TestEncodeUnknownKind(t *testing.T) {
	_, err := Encode(Message{Kind: Kind("BOGUS")})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownKind))
}
