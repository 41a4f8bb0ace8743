package session

import "github.com/pkg/errors"

// ErrNameTaken indicates that another session already holds the display name.
var ErrNameTaken = errors.New("display name already taken")
