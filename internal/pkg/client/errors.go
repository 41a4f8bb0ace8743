package client

import "github.com/pkg/errors"

// ErrLoginRejected indicates that the server refused the display name.
var ErrLoginRejected = errors.New("login rejected")
