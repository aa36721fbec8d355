package jrlib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

/*
ParseAttributes
Turn 'key=value' arguments into resource attributes. Values that are valid
JSON (numbers, booleans, null, arrays, objects, quoted strings) are decoded,
anything else is kept as a plain string:

	name=Bolt size=3 tags=["a","b"] note="3"

gives {"name": "Bolt", "size": 3, "tags": ["a", "b"], "note": "3"}.
*/
func ParseAttributes(arguments []string) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(arguments))
	for _, argument := range arguments {
		key, value, err := splitArgument(argument)
		if err != nil {
			return nil, err
		}
		if key == "id" || key == "type" {
			return nil, fmt.Errorf("'%s' cannot be set as an attribute", key)
		}
		result[key] = parseValue(value)
	}
	return result, nil
}

// ParseFilters turns 'key=value' arguments into query filters. Keys may use
// '__' for nested filters, eg 'age__gt=15'.
func ParseFilters(arguments []string) (map[string]string, error) {
	result := make(map[string]string, len(arguments))
	for _, argument := range arguments {
		key, value, err := splitArgument(argument)
		if err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, nil
}

func splitArgument(argument string) (string, string, error) {
	key, value, found := strings.Cut(argument, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf(
			"invalid argument '%s', expected 'key=value'", argument,
		)
	}
	return key, value, nil
}

func parseValue(value string) interface{} {
	decoder := json.NewDecoder(bytes.NewReader([]byte(value)))
	decoder.UseNumber()
	var result interface{}
	if err := decoder.Decode(&result); err != nil || decoder.More() {
		return value
	}
	return result
}
