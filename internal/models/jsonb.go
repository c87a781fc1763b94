package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSONB-backed list of strings.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return jsonValue(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	return scanJSON(value, l, "StringList")
}

// Value implements driver.Valuer.
func (r TestResults) Value() (driver.Value, error) {
	return jsonValue(r)
}

// Scan implements sql.Scanner.
func (r *TestResults) Scan(value interface{}) error {
	*r = TestResults{}
	return scanJSON(value, r, "TestResults")
}

// Value implements driver.Valuer.
func (c SessionConditions) Value() (driver.Value, error) {
	return jsonValue(c)
}

// Scan implements sql.Scanner.
func (c *SessionConditions) Scan(value interface{}) error {
	*c = SessionConditions{}
	return scanJSON(value, c, "SessionConditions")
}

// Value implements driver.Valuer.
func (s EngineSnapshot) Value() (driver.Value, error) {
	return jsonValue(s)
}

// Scan implements sql.Scanner.
func (s *EngineSnapshot) Scan(value interface{}) error {
	*s = EngineSnapshot{}
	return scanJSON(value, s, "EngineSnapshot")
}

func jsonValue(v interface{}) (driver.Value, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, name)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
