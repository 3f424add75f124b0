package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is how a task's creation date is stored.
const DateLayout = "2006-01-02"

// DisplayLayout is the pt-BR day/month/year form shown on cards.
const DisplayLayout = "02/01/2006"

// ID is a server-assigned task identifier. Backing stores may hand out
// strings or integers; both are kept as their textual form.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: not a string or number: %s", b)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical integers as JSON numbers so numeric ids
// survive a read/write cycle. Everything else is a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// Task is the domain model for a tarefa.
type Task struct {
	ID        ID     `json:"id,omitempty"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Data      string `json:"data"`
}

// Today returns now as a stored date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// DisplayDate converts a stored YYYY-MM-DD date into DD/MM/YYYY.
// Values that don't parse are returned as-is.
func DisplayDate(data string) string {
	t, err := time.Parse(DateLayout, data)
	if err != nil {
		return data
	}
	return t.Format(DisplayLayout)
}
