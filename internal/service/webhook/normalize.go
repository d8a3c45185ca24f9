package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/guru-ai/coursechat/backend/internal/model/chat"
)

// Source records which payload shape produced a reply.
type Source int

const (
	// SourceDefault means no shape matched and the acknowledgement was used.
	SourceDefault Source = iota
	// SourceList is a JSON array whose first element carries "output".
	SourceList
	// SourceObject is a JSON object carrying "output".
	SourceObject
	// SourceEncodedList is a string holding an encoded SourceList payload.
	SourceEncodedList
	// SourceEncodedObject is a string holding an encoded SourceObject payload.
	SourceEncodedObject
)

func (s Source) String() string {
	switch s {
	case SourceList:
		return "list"
	case SourceObject:
		return "object"
	case SourceEncodedList:
		return "encoded_list"
	case SourceEncodedObject:
		return "encoded_object"
	default:
		return "default"
	}
}

// Reply is a normalized webhook answer.
type Reply struct {
	Text   string
	Source Source
}

// Defaulted reports whether the payload was unrecognized.
func (r Reply) Defaulted() bool {
	return r.Source == SourceDefault
}

var defaultReply = Reply{Text: chat.AcknowledgementText, Source: SourceDefault}

// Normalize turns a session-variant response body into reply text. Shapes
// are tried in order: list, object, then a string that decodes to a list or
// object. A body that is not JSON at all is treated as such a string.
func Normalize(body []byte) Reply {
	payload, err := decodeJSON(body)
	if err != nil {
		payload = string(body)
	}

	if r, ok := structured(payload); ok {
		return r
	}

	encoded, ok := payload.(string)
	if !ok {
		return defaultReply
	}
	inner, err := decodeJSON([]byte(encoded))
	if err != nil {
		return defaultReply
	}
	r, ok := structured(inner)
	if !ok {
		return defaultReply
	}
	switch r.Source {
	case SourceList:
		r.Source = SourceEncodedList
	case SourceObject:
		r.Source = SourceEncodedObject
	}
	return r
}

// NormalizeLegacy handles the legacy variant, which answers {"message": ...}.
func NormalizeLegacy(body []byte) Reply {
	payload, err := decodeJSON(body)
	if err != nil {
		return defaultReply
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return defaultReply
	}
	if text, ok := render(obj["message"]); ok {
		return Reply{Text: text, Source: SourceObject}
	}
	return defaultReply
}

func structured(payload any) (Reply, bool) {
	switch v := payload.(type) {
	case []any:
		if len(v) == 0 {
			return Reply{}, false
		}
		first, ok := v[0].(map[string]any)
		if !ok {
			return Reply{}, false
		}
		if text, ok := render(first["output"]); ok {
			return Reply{Text: text, Source: SourceList}, true
		}
	case map[string]any:
		if text, ok := render(v["output"]); ok {
			return Reply{Text: text, Source: SourceObject}, true
		}
	}
	return Reply{}, false
}

// render converts an output value to display text. Missing, null and empty
// values do not count as an answer.
func render(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

// decodeJSON decodes exactly one JSON value, keeping numbers verbatim.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}
