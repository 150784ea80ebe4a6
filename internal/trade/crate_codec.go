package trade

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

func encodeCrate(c settlement.Crate) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode crate: %w", err)
	}
	return data, nil
}

func decodeCrate(data []byte, out *settlement.Crate) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode crate: %w", err)
	}
	return nil
}
