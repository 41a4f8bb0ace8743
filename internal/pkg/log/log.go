// Package log adds logging utilities.
package log

import (
	"strings"
	"time"

	"place/internal/pkg/board"
	"place/internal/pkg/protocol"

	"github.com/sirupsen/logrus"
)

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	logrus.SetLevel(logrus.ErrorLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

// MessageToFields summarizes a wire message for logging.
func MessageToFields(msg protocol.Message) logrus.Fields {
	fields := logrus.Fields{
		"kind": msg.Kind,
	}
	switch msg.Kind {
	case protocol.KindLogin:
		fields["name"] = msg.Login.Name
	case protocol.KindLoginSuccess:
		fields["name"] = msg.LoginSuccess.Name
	case protocol.KindError:
		fields["text"] = msg.Error.Text
	case protocol.KindBoard:
		fields["dim"] = msg.Board.Dim
	case protocol.KindChangeTile:
		fields["row"] = msg.ChangeTile.Row
		fields["col"] = msg.ChangeTile.Col
		fields["color"] = msg.ChangeTile.Color
	case protocol.KindTileChanged:
		return TileToFields(msg.TileChanged.Tile)
	}
	return fields
}

// TileToFields summarizes a committed tile for logging.
func TileToFields(tile board.Tile) logrus.Fields {
	return logrus.Fields{
		"kind":  protocol.KindTileChanged,
		"row":   tile.Row,
		"col":   tile.Col,
		"color": tile.Color,
		"owner": tile.Owner,
	}
}
