package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func jsonPayload(t *testing.T, raw string) *Payload {
	t.Helper()
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		t.Fatalf("bad fixture %s: %v", raw, err)
	}
	return &Payload{JSON: true, Raw: []byte(raw), Value: value}
}

func TestParseErrorBodyPriority(t *testing.T) {
	cases := []struct {
		name    string
		payload *Payload
		kind    ErrorBodyKind
		message string
	}{
		{"string detail", jsonPayload(t, `{"detail":"Course not found","message":"ignored"}`), StringDetail, "Course not found"},
		{"list detail", jsonPayload(t, `{"detail":[{"msg":"a"},{"msg":"b"},{"msg":"c"}]}`), ListDetail, "a, b, c"},
		{"list detail without msg", jsonPayload(t, `{"detail":[{"loc":["x"]},{"msg":""},null]}`), ListDetail, `{"loc":["x"]}, {"msg":""}, null`},
		{"message field", jsonPayload(t, `{"message":"Slow down","code":429}`), MessageField, "Slow down"},
		{"detail object falls to raw json", jsonPayload(t, `{"detail": {"x": 1}}`), RawJSON, `{"detail":{"x":1}}`},
		{"raw json array", jsonPayload(t, `[1, 2]`), RawJSON, `[1,2]`},
		{"json string", jsonPayload(t, `"plain failure"`), RawText, "plain failure"},
		{"json null", &Payload{JSON: true}, EmptyBody, "Request failed: 500"},
		{"json number", jsonPayload(t, `42`), EmptyBody, "Request failed: 500"},
		{"text", &Payload{Value: "Bad Gateway"}, RawText, "Bad Gateway"},
		{"blank text", &Payload{Value: "  \n"}, EmptyBody, "Request failed: 500"},
		{"nil", nil, EmptyBody, "Request failed: 500"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := ParseErrorBody(tc.payload)
			assert.Equal(t, tc.kind, body.Kind, body.Kind.String())
			assert.Equal(t, tc.message, body.Message(500))
		})
	}
}

func TestStringDetailIsReturnedExactly(t *testing.T) {
	for _, detail := range []string{"Invalid phone or password", "  spaced  ", "ünïcode ✓"} {
		raw, _ := json.Marshal(map[string]string{"detail": detail})
		body := ParseErrorBody(jsonPayload(t, string(raw)))
		assert.Equal(t, detail, body.Message(400))
	}
}
