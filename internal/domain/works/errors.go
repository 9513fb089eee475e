package works

import "errors"

var (
	ErrLocationInUse     = errors.New("location is assigned to one or more artworks")
	ErrInvalidLocation   = errors.New("location does not exist")
	ErrDuplicateLocation = errors.New("location name already exists")
)
