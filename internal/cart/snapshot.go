package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedSnapshot is returned when persisted data is not a cart.
var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

// Snapshot is the unit of persistence: the full list of items plus the
// time it was saved, in epoch milliseconds.
type Snapshot struct {
	Items     []Item `json:"items"`
	Timestamp int64  `json:"timestamp"`
}

// EncodeSnapshot serializes s in the current format. A nil item list is
// written as an empty array.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Items == nil {
		s.Items = []Item{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses persisted cart data. Three shapes are understood:
//
//	[ {item}, ... ]                        legacy, timestamp 0
//	{"items": [ ... ], "timestamp": N}     current
//	{"cart": [ ... ], "timestamp": N}      written by the original web page
//
// A missing timestamp means 0. Anything else wraps ErrMalformedSnapshot.
//
// A numeric cartId decodes to its decimal text and is encoded back as a
// JSON string, so a cart read and saved again no longer carries numeric
// ids. The conversion is one way.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Snapshot{}, fmt.Errorf("%w: empty value", ErrMalformedSnapshot)
	}

	switch trimmed[0] {
	case '[':
		items, err := decodeItems(trimmed)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Items: items}, nil

	case '{':
		var raw struct {
			Items     json.RawMessage `json:"items"`
			Cart      json.RawMessage `json:"cart"`
			Timestamp *json.Number    `json:"timestamp"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		list := raw.Items
		if !isArray(list) {
			list = raw.Cart
		}
		if !isArray(list) {
			return Snapshot{}, fmt.Errorf("%w: no item list", ErrMalformedSnapshot)
		}
		items, err := decodeItems(list)
		if err != nil {
			return Snapshot{}, err
		}
		ts, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Items: items, Timestamp: ts}, nil

	default:
		return Snapshot{}, fmt.Errorf("%w: unexpected JSON value", ErrMalformedSnapshot)
	}
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func decodeItems(raw []byte) ([]Item, error) {
	items := []Item{}
	if err := json.Unmarshal(raw, &items); err != nil {
		if errors.Is(err, ErrMalformedSnapshot) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return items, nil
}

func parseTimestamp(n *json.Number) (int64, error) {
	if n == nil || *n == "" {
		return 0, nil
	}
	ts, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, fmt.Errorf("%w: timestamp %q is not an integer", ErrMalformedSnapshot, n.String())
		}
		ts = int64(f)
	}
	if ts < 0 {
		return 0, fmt.Errorf("%w: negative timestamp %d", ErrMalformedSnapshot, ts)
	}
	return ts, nil
}
