package engine

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid game config")
	ErrInvalidPath    = errors.New("invalid path")
	ErrAlreadyMatched = errors.New("pair already connected")
	ErrNotMatched     = errors.New("pair is not connected")
	ErrUnknownPair    = errors.New("unknown pair")
	ErrGameOver       = errors.New("game is over")
	ErrInvalidState   = errors.New("state does not match the board")
	ErrOutOfBounds    = errors.New("cell is outside the board")
	ErrStaleBoard     = errors.New("board changed while a new one was generated")
)
