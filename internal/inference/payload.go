package inference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindUnrecognized Kind = iota
	KindCompletion
	KindObject
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindCompletion:
		return "completion"
	case KindObject:
		return "object"
	case KindText:
		return "text"
	default:
		return "unrecognized"
	}
}

type Result struct {
	Translation string `json:"translation"`
	Description string `json:"description"`
}

// Payload is the decoded result shape. Only the fields for Kind are set.
type Payload struct {
	Kind   Kind
	Text   string
	Object map[string]json.RawMessage
}

type envelope struct {
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
	Result  json.RawMessage `json:"result"`
}

type completion struct {
	CompletionMessage *struct {
		Content *struct {
			Text *string `json:"text"`
		} `json:"content"`
	} `json:"completion_message"`
}

// Decode parses a /process-image response body. Undecodable bodies wrap
// ErrConnection. An object body counts as a result only with success:true;
// anything else is a *ServerError carrying the body's error message.
func Decode(body []byte, status int) (Payload, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if !json.Valid(body) {
			return Payload{}, fmt.Errorf("%w: decode response: %v", ErrConnection, err)
		}
		if status >= http.StatusBadRequest {
			return Payload{}, &ServerError{StatusCode: status}
		}
		return DecodePayload(body), nil
	}
	if env.Success == nil || !*env.Success {
		return Payload{}, &ServerError{StatusCode: status, Message: env.Error}
	}

	raw := json.RawMessage(body)
	if len(env.Result) > 0 && !bytes.Equal(bytes.TrimSpace(env.Result), []byte("null")) {
		raw = env.Result
	}
	return DecodePayload(raw), nil
}

func DecodePayload(raw json.RawMessage) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Payload{Kind: KindUnrecognized}
	}

	var c completion
	if err := json.Unmarshal(raw, &c); err == nil &&
		c.CompletionMessage != nil && c.CompletionMessage.Content != nil && c.CompletionMessage.Content.Text != nil {
		return Payload{Kind: KindCompletion, Text: *c.CompletionMessage.Content.Text}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return Payload{Kind: KindObject, Object: obj}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Payload{Kind: KindText, Text: s}
	}

	return Payload{Kind: KindUnrecognized}
}

func (p Payload) Result() Result {
	switch p.Kind {
	case KindCompletion:
		return parseCompletionText(p.Text)
	case KindObject:
		return fromObject(p.Object)
	case KindText:
		return Result{Translation: p.Text}
	default:
		return Result{}
	}
}

// Normalize decodes a full response body into a Result.
func Normalize(body []byte, status int) (Result, error) {
	p, err := Decode(body, status)
	if err != nil {
		return Result{}, err
	}
	return p.Result(), nil
}

func parseCompletionText(text string) Result {
	cleaned := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = strings.TrimPrefix(cleaned, "```json")
	case strings.HasPrefix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "```"))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil || obj == nil {
		return Result{Translation: text}
	}
	return fromObject(obj)
}

func fromObject(obj map[string]json.RawMessage) Result {
	return Result{
		Translation: field(obj, "translation"),
		Description: field(obj, "context"),
	}
}

func field(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	return string(trimmed)
}
