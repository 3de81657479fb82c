package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeCollection decodes a paged collection body, tolerating the two
// response shapes the backend has shipped: a keyed object
// {"<key>": [...], "totalPages": n} and a bare JSON array. Multiple keys
// cover endpoints that renamed the collection field between revisions
// (e.g. "notices" vs "content").
//
// PRE: raw is a 2xx response body; items is a pointer to a slice
// POST: items populated; totalPages is 0 when the body did not carry it
func DecodeCollection(raw []byte, items any, keys ...string) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, items); err != nil {
			return 0, fmt.Errorf("decode collection array: %w", err)
		}
		return 0, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return 0, fmt.Errorf("decode collection envelope: %w", err)
	}

	totalPages := 0
	if tp, ok := envelope["totalPages"]; ok {
		if err := json.Unmarshal(tp, &totalPages); err != nil {
			return 0, fmt.Errorf("decode totalPages: %w", err)
		}
	}

	for _, key := range keys {
		value, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, items); err != nil {
			return 0, fmt.Errorf("decode collection %q: %w", key, err)
		}
		return totalPages, nil
	}
	return 0, fmt.Errorf("collection body has none of the keys %v", keys)
}
