package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string or number into its textual form. The admin
// UI posts ids and prices either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// Uint parses the value as a positive identifier.
func (f FlexString) Uint() (uint, error) {
	n, err := strconv.ParseUint(string(f), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", string(f))
	}
	return uint(n), nil
}

// Float parses the value as a decimal number.
func (f FlexString) Float() (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(string(f), ",", "."), 64)
}
