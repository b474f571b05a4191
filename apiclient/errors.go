package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
)

var ErrInvalidResponse = apperrors.ErrInvalidResponse

// FallbackMessage is used when neither the payload nor the transport explain a failure.
const FallbackMessage = "unexpected server error"

// TransportError is a failed exchange: no response, or a non-2xx response.
type TransportError struct {
	StatusCode int    // 0 when no response was received
	Message    string // Best-effort message for the user
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %s", e.Message)
	}
	return fmt.Sprintf("transport error (status %d): %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RefusedError is a well-formed response with success:false.
type RefusedError struct {
	Message string
}

func (e *RefusedError) Error() string {
	if e.Message == "" {
		return "request refused by the server"
	}
	return e.Message
}

// ExtractErrorMessage picks the user-facing message out of an error payload, in order:
// string body, "message", "title", first entry of the "errors" map, the transport message,
// then FallbackMessage.
func ExtractErrorMessage(body []byte, transportMessage string) string {
	if msg := payloadMessage(body); msg != "" {
		return msg
	}
	if strings.TrimSpace(transportMessage) != "" {
		return transportMessage
	}
	return FallbackMessage
}

func payloadMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return strings.TrimSpace(s)
		}
		if json.Valid(trimmed) {
			return ""
		}
		return string(trimmed)
	}

	for _, key := range []string{"message", "title"} {
		var s string
		if raw, ok := obj[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	if raw, ok := obj["errors"]; ok {
		return firstErrorEntry(raw)
	}
	return ""
}

// firstErrorEntry returns the first message of the first key in document order.
func firstErrorEntry(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return ""
	}
	if !dec.More() {
		return ""
	}
	if _, err := dec.Token(); err != nil {
		return ""
	}
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return ""
	}

	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		if len(list) > 0 {
			return list[0]
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return ""
}
