package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ClientRecord returns the "client" object of a payload, or the whole
// payload when that field is absent or null.
func ClientRecord(payload []byte) json.RawMessage {
	if c := gjson.GetBytes(payload, "client"); c.Exists() && c.Type != gjson.Null {
		return json.RawMessage(c.Raw)
	}
	if !gjson.ValidBytes(payload) || len(payload) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(payload)
}

// MenuItems returns the payload's menuItems array.
func MenuItems(payload []byte) (json.RawMessage, error) {
	return array(payload, "menuItems")
}

// Categories returns the payload's categories array.
func Categories(payload []byte) (json.RawMessage, error) {
	return array(payload, "categories")
}

func array(payload []byte, field string) (json.RawMessage, error) {
	v := gjson.GetBytes(payload, field)
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: %s missing", ErrBadPayload, field)
	}
	return json.RawMessage(v.Raw), nil
}
