package core

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the vector as a three element array
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// UnmarshalJSON decodes a three element array
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("while decoding vector: %w", err)
	}
	if len(arr) != 3 {
		return fmt.Errorf("vector needs 3 components, got %d", len(arr))
	}
	*v = Vec3{X: arr[0], Y: arr[1], Z: arr[2]}
	return nil
}
