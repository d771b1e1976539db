package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Payload is a classified response body. For JSON responses Value holds the
// decoded document (nil when it was null or failed to parse); for anything
// else Value holds the body text.
type Payload struct {
	Status      int
	ContentType string
	JSON        bool
	Raw         []byte
	Value       interface{}
}

func readPayload(resp *http.Response) *Payload {
	p := &Payload{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	p.JSON = strings.Contains(strings.ToLower(p.ContentType), "application/json")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return p
	}
	p.Raw = raw

	if !p.JSON {
		p.Value = string(raw)
		return p
	}
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		p.Raw = nil
		return p
	}
	p.Value = value
	return p
}

// Decode unmarshals a JSON payload into out. Null, unparseable, and non-JSON
// payloads leave out untouched.
func (p *Payload) Decode(out interface{}) error {
	if p == nil || !p.JSON || p.Value == nil {
		return nil
	}
	return json.Unmarshal(p.Raw, out)
}

// DecodeList reads a JSON array into a slice. Anything that is not an array
// of the expected shape yields an empty list.
func DecodeList[T any](p *Payload) []T {
	items := []T{}
	if p == nil || !p.JSON {
		return items
	}
	if _, ok := p.Value.([]interface{}); !ok {
		return items
	}
	if err := json.Unmarshal(p.Raw, &items); err != nil {
		return []T{}
	}
	return items
}
