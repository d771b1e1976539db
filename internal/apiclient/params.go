package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
)

// Params are query parameters. Nil values, nil pointers and empty strings
// are left out of the URL entirely.
type Params map[string]interface{}

func (p Params) apply(values url.Values) {
	for key, raw := range p {
		value, ok := paramValue(raw)
		if !ok {
			continue
		}
		values.Set(key, value)
	}
}

func paramValue(raw interface{}) (string, bool) {
	if raw == nil {
		return "", false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", false
		}
		raw = rv.Elem().Interface()
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return s, s != ""
}
