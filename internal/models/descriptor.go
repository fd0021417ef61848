package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type DescriptorRecord struct {
	Location    string    `json:"location"`
	DisplayName string    `json:"display_name"`
	Fields      Fields    `json:"fields"`
	Children    ChildList `json:"children"`
}

type Fields map[string]string

// Value stores Fields as JSONB.
func (f Fields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

func (f *Fields) Scan(value interface{}) error {
	if value == nil {
		*f = make(Fields)
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Fields", value)
	}
	return json.Unmarshal(b, f)
}

type ChildList []string

func (c ChildList) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *ChildList) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into ChildList", value)
	}
	return json.Unmarshal(b, c)
}
