package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrEmptyAttributes = errors.New("no fillable attributes given")
	ErrUnknownColumn   = errors.New("unknown column")
)
