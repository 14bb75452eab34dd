// Package media holds the image side of a portfolio draft: the persisted/staged item
// variants, the upload validator, the ordered collection that keeps both kinds in one
// visual sequence, and the preview handles backing staged files.
package media

import "errors"

var (
	ErrCapacity    = errors.New("image capacity exceeded")
	ErrIndex       = errors.New("image position out of range")
	ErrUnknownItem = errors.New("image not in collection")
)
