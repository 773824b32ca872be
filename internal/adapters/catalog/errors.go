package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrLoadCatalog  = errors.New("catalog load failed")
	ErrEmptyCatalog = errors.New("catalog contains no valid records")
)
