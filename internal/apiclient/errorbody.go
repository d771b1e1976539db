package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorBodyKind tags the shape found in a failed response body.
type ErrorBodyKind int

// Shapes in priority order.
const (
	EmptyBody ErrorBodyKind = iota
	StringDetail
	ListDetail
	MessageField
	RawJSON
	RawText
)

func (k ErrorBodyKind) String() string {
	switch k {
	case StringDetail:
		return "string_detail"
	case ListDetail:
		return "list_detail"
	case MessageField:
		return "message_field"
	case RawJSON:
		return "raw_json"
	case RawText:
		return "raw_text"
	default:
		return "empty"
	}
}

// ErrorBody is the parsed form of a non-2xx response.
type ErrorBody struct {
	Kind  ErrorBodyKind
	Text  string
	Items []string
}

// ParseErrorBody classifies p. A string detail wins, then a list detail, then
// a string message, then any other JSON object or array, then non-blank text.
func ParseErrorBody(p *Payload) ErrorBody {
	if p == nil {
		return ErrorBody{Kind: EmptyBody}
	}
	if !p.JSON {
		if text, ok := p.Value.(string); ok && strings.TrimSpace(text) != "" {
			return ErrorBody{Kind: RawText, Text: text}
		}
		return ErrorBody{Kind: EmptyBody}
	}

	switch v := p.Value.(type) {
	case map[string]interface{}:
		switch detail := v["detail"].(type) {
		case string:
			return ErrorBody{Kind: StringDetail, Text: detail}
		case []interface{}:
			items := make([]string, 0, len(detail))
			for _, entry := range detail {
				items = append(items, detailEntry(entry))
			}
			return ErrorBody{Kind: ListDetail, Items: items}
		}
		if msg, ok := v["message"].(string); ok {
			return ErrorBody{Kind: MessageField, Text: msg}
		}
		return ErrorBody{Kind: RawJSON, Text: compact(p.Raw, v)}
	case []interface{}:
		return ErrorBody{Kind: RawJSON, Text: compact(p.Raw, v)}
	case string:
		if strings.TrimSpace(v) != "" {
			return ErrorBody{Kind: RawText, Text: v}
		}
	}
	return ErrorBody{Kind: EmptyBody}
}

// Message renders the body as the single user-facing message.
func (b ErrorBody) Message(status int) string {
	switch b.Kind {
	case StringDetail, MessageField, RawJSON, RawText:
		return b.Text
	case ListDetail:
		return strings.Join(b.Items, ", ")
	default:
		return fmt.Sprintf("Request failed: %d", status)
	}
}

// detailEntry uses an entry's msg when it is set, else the entry as JSON.
func detailEntry(entry interface{}) string {
	if m, ok := entry.(map[string]interface{}); ok {
		switch msg := m["msg"].(type) {
		case string:
			if msg != "" {
				return msg
			}
		case nil:
		case bool:
			if msg {
				return "true"
			}
		case float64:
			if msg != 0 {
				return fmt.Sprint(msg)
			}
		default:
			return marshal(msg)
		}
	}
	return marshal(entry)
}

func compact(raw []byte, fallback interface{}) string {
	buf := &bytes.Buffer{}
	if err := json.Compact(buf, raw); err != nil {
		return marshal(fallback)
	}
	return buf.String()
}

func marshal(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
