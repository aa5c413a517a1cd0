package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringArray maps a PostgreSQL TEXT[] column, implementing the GORM
// Scanner/Valuer pair. Elements are expected to be plain identifiers
// (user ids) without commas or quotes.
type StringArray []string

// Scan parses PostgreSQL {a,b,c} array text into a []string.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = StringArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(StringArray, 0, len(parts))
	for _, p := range parts {
		arr = append(arr, strings.Trim(strings.TrimSpace(p), `"`))
	}
	*a = arr
	return nil
}

// Value serializes the slice into PostgreSQL {a,b,c} array text.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}
