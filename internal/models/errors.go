package models

import "errors"

// ErrNotFound is returned by stores when a requested entity does not exist
var ErrNotFound = errors.New("entity not found")
