package handlers

import "errors"

var errInvalidDataURL = errors.New("data URL has no comma separator")
