package scene

import "errors"

var (
	// ErrInvalidScene is returned when a scene store fails validation
	ErrInvalidScene = errors.New("invalid scene")
	// ErrUnknownPreset is returned for a built-in scene name that does not exist
	ErrUnknownPreset = errors.New("unknown scene preset")
)
