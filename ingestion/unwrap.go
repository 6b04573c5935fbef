package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var (
	wrapperKeys     = []string{"items", "results", "data", "messages"}
	dataWrapperKeys = []string{"items", "results", "messages"}
)

// Unwrap extracts the record array from a messages payload. It accepts a
// bare array, an object with an items/results/data/messages array, or an
// object whose data object holds an items/results/messages array.
func Unwrap(payload []byte) ([]json.RawMessage, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUnrecognizedPayload)
	}

	switch payload[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("decoding record array: %w", err)
		}
		return records, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding wrapper object: %w", err)
		}
		if records, ok := findArray(wrapper, wrapperKeys); ok {
			return records, nil
		}
		if data, ok := wrapper["data"]; ok && isObject(data) {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(data, &inner); err == nil {
				if records, ok := findArray(inner, dataWrapperKeys); ok {
					return records, nil
				}
			}
		}
		return nil, fmt.Errorf("%w: object without a record array", ErrUnrecognizedPayload)
	default:
		return nil, fmt.Errorf("%w: neither array nor object", ErrUnrecognizedPayload)
	}
}

func findArray(obj map[string]json.RawMessage, keys []string) ([]json.RawMessage, bool) {
	for _, key := range keys {
		value, ok := obj[key]
		if !ok || !isArray(value) {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(value, &records); err != nil {
			continue
		}
		return records, true
	}
	return nil, false
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
