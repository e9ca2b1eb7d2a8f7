package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

func encodeSnapshot(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}

// decodeSnapshot accepts only snapshots that satisfy the cart invariants:
// positive ids, no repeated id, quantities between one and MaxQuantity and
// prices that are not negative. Anything else is rejected as a whole.
func decodeSnapshot(raw string) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	seen := make(map[int]struct{}, len(lines))
	for i, l := range lines {
		switch {
		case l.ID < 1:
			return nil, fmt.Errorf("%w: line %d has id %d", ErrCorruptSnapshot, i, l.ID)
		case l.Quantity < 1 || l.Quantity > MaxQuantity:
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrCorruptSnapshot, i, l.Quantity)
		case l.Price.IsNegative():
			return nil, fmt.Errorf("%w: line %d has negative price", ErrCorruptSnapshot, i)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("%w: product %d appears twice", ErrCorruptSnapshot, l.ID)
		}
		seen[l.ID] = struct{}{}
	}

	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}
