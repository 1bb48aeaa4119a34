package marketcache

import "errors"

var ErrMiss = errors.New("cache miss")
