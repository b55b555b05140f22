package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Label is a season or episode number as the catalog provides it.
// The catalog sends numbers, but strings are accepted as-is; null decodes to "".
type Label string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("label must be a string or a number, got %s", data)
	}
	*l = Label(n.String())
	return nil
}

// String returns the label text.
func (l Label) String() string {
	return string(l)
}

// CatalogEpisode represents the raw episode record from the catalog episodes endpoint.
type CatalogEpisode struct {
	ID     *int    `json:"id"`
	Name   *string `json:"name"`
	Season *Label  `json:"season"`
	Number *Label  `json:"number"`
}

// Episode represents a single episode of a show normalized for display
type Episode struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season Label  `json:"season"`
	Number Label  `json:"number"`
}
