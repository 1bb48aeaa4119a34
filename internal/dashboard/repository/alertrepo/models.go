package alertrepo

import "errors"

var ErrNotFound = errors.New("price alert not found")
