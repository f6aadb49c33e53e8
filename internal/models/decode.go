package models

import (
	"bytes"
	"encoding/json"
)

// decodeStrict rejects unknown keys and then checks the validate tags of v,
// so pointer fields tagged required must be present in the input.
func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}
