package portfoliorepo

import "errors"

var (
	ErrNotFound      = errors.New("portfolio not found")
	ErrAlreadyExists = errors.New("portfolio already exists")
	ErrAssetNotFound = errors.New("asset not found")
)
