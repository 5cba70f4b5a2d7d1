package core

import "errors"

var (
	ErrDuplicateSymbol = errors.New("symbol already tracked")
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrStoreCorrupt    = errors.New("watch-list store is corrupt")
)
