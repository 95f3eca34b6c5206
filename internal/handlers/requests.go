package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LoginRequest is a sign-in or registration attempt. Presence of the fields
// is checked by auth so the messages match the login form.
type LoginRequest struct {
	Name     string `json:"name" validate:"max=120"`
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=256"`
	Register bool   `json:"register"`
}

// CreateLeaderRequest represents a request to add a leader
type CreateLeaderRequest struct {
	FromSettings bool `json:"fromSettings"`
}

// FieldUpdateRequest edits a single text field of a leader or a catalog entry
type FieldUpdateRequest struct {
	Field string `json:"field" validate:"required,max=64"`
	Value string `json:"value" validate:"max=1024"`
}

// MetricValueRequest sets a KPI actual value
type MetricValueRequest struct {
	Value MetricValue `json:"value"`
}

// MetricValue accepts a JSON number or a string so form inputs can be sent
// as typed. The service does the numeric parsing.
type MetricValue string

func (v *MetricValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = MetricValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*v = MetricValue(n.String())
	return nil
}
