package lights

import "errors"

// ErrInvalidSkybox is returned when a skybox holds non-finite colors or a
// visible sun with no direction
var ErrInvalidSkybox = errors.New("invalid skybox")
