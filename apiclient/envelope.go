package apiclient

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Envelope is the uniform {success, message, data} wrapper of the parking API.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Result returns the data of a successful envelope, or a *RefusedError carrying the message.
func (e Envelope[T]) Result() (T, error) {
	if !e.Success {
		var zero T
		return zero, &RefusedError{Message: e.Message}
	}
	return e.Data, nil
}

// DecodeEnvelope decodes an enveloped body. A body without a success field is ErrInvalidResponse.
func DecodeEnvelope[T any](body []byte) (Envelope[T], error) {
	var probe struct {
		Success *bool           `json:"success"`
		Message *string         `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return Envelope[T]{}, errors.Wrap(ErrInvalidResponse, err.Error())
	}
	if probe.Success == nil {
		return Envelope[T]{}, ErrInvalidResponse
	}

	env := Envelope[T]{Success: *probe.Success}
	if probe.Message != nil {
		env.Message = *probe.Message
	}
	if isPresent(probe.Data) {
		if err := json.Unmarshal(probe.Data, &env.Data); err != nil {
			return Envelope[T]{}, errors.Wrap(ErrInvalidResponse, err.Error())
		}
	}
	return env, nil
}

// MaybeEnveloped is a body that is either an Envelope[T] or a bare T.
// The shape is decided once, in DecodeMaybeEnveloped, by the presence of a top-level "data" key.
type MaybeEnveloped[T any] struct {
	Wrapped bool
	Success *bool  // nil when the body had no success flag
	Message string // envelope message, also read from bare bodies that carry one
	Payload *T     // data of a wrapped body or the bare body itself; nil when data is null
}

// Rejected reports an explicit success:false, whatever the shape.
func (m MaybeEnveloped[T]) Rejected() bool {
	return m.Success != nil && !*m.Success
}

func DecodeMaybeEnveloped[T any](body []byte) (MaybeEnveloped[T], error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return MaybeEnveloped[T]{}, errors.Wrap(ErrInvalidResponse, err.Error())
	}

	data, wrapped := top["data"]
	res := MaybeEnveloped[T]{Wrapped: wrapped}
	if raw, ok := top["success"]; ok {
		var success bool
		if err := json.Unmarshal(raw, &success); err == nil {
			res.Success = &success
		}
	}
	if raw, ok := top["message"]; ok {
		_ = json.Unmarshal(raw, &res.Message)
	}

	payload := json.RawMessage(body)
	if wrapped {
		payload = data
	}
	if isPresent(payload) {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return MaybeEnveloped[T]{}, errors.Wrap(ErrInvalidResponse, err.Error())
		}
		res.Payload = &v
	}
	return res, nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
