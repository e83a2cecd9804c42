package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrUnsuccessful = errors.New("catalog reported failure")
	ErrNoItems      = errors.New("no items in payload")
)

// rawEnvelope covers every top-level shape the catalog has been seen to
// return: {success, data}, {status: "SUCCESS", data} and {results}.
type rawEnvelope struct {
	Success *FlexBool       `json:"success"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Results json.RawMessage `json:"results"`
}

func (e rawEnvelope) flagged() bool {
	return e.Success != nil || e.Status != ""
}

func (e rawEnvelope) ok() bool {
	if e.Success != nil && bool(*e.Success) {
		return true
	}
	return strings.EqualFold(e.Status, "SUCCESS")
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// normalize decodes body and returns the raw items it carries. Items are
// looked up, in order, under data.results, results, data.<collection>
// for each given collection key, data as an array, and data as a single
// object. A payload that carries an explicit failure flag is rejected even
// when it has items; an unflagged payload is accepted if it has items.
func normalize(body []byte, collections ...string) ([]json.RawMessage, error) {
	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.flagged() && !env.ok() {
		return nil, ErrUnsuccessful
	}

	items, found, err := extractItems(env, collections)
	if err != nil {
		return nil, err
	}
	if !found {
		if env.flagged() {
			// Successful but empty
			return nil, nil
		}
		return nil, ErrNoItems
	}
	return items, nil
}

func extractItems(env rawEnvelope, collections []string) ([]json.RawMessage, bool, error) {
	var data map[string]json.RawMessage
	if isObject(env.Data) {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, false, err
		}
	}

	if raw, ok := data["results"]; ok && isArray(raw) {
		return splitArray(raw)
	}
	if isArray(env.Results) {
		return splitArray(env.Results)
	}
	for _, key := range collections {
		if raw, ok := data[key]; ok && isArray(raw) {
			return splitArray(raw)
		}
	}
	if isArray(env.Data) {
		return splitArray(env.Data)
	}
	if data != nil && len(data) > 0 {
		return []json.RawMessage{env.Data}, true, nil
	}
	return nil, false, nil
}

func splitArray(raw json.RawMessage) ([]json.RawMessage, bool, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// decodeItems unmarshals each raw item into T, skipping the ones that do
// not decode. The count of skipped items is returned for logging.
func decodeItems[T any](raw []json.RawMessage) ([]T, int) {
	out := make([]T, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}
