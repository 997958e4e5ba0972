package message

import (
	"encoding/json"
	"fmt"
)

// Parse decodes a raw Kafka payload into a Sample. It returns
// ErrBadSampleJSON (wrapping the original error) when the payload is not
// a JSON object.
func Parse(data []byte) (Sample, error) {
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSampleJSON, err)
	}
	return s, nil
}
