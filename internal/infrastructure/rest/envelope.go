package rest

import (
	"bytes"
	"encoding/json"
)

// envelope is the canonical success shape: {success, data, message}.
// Success is a pointer so its mere presence marks an enveloped body.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// errorBody covers the error shapes the backend has produced across
// revisions: {detail} canonically, {error}/{message} as legacy debt.
type errorBody struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodePayload unwraps an enveloped body into out, falling back to
// decoding the whole body when the envelope is absent. The identity
// endpoint historically answered bare; callers never see the
// difference.
func decodePayload(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
			return nil
		}
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}

// errorDetail extracts the server's failure message, or returns the
// fallback when the body carries none.
func errorDetail(raw []byte, fallback string) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Detail != "":
			return body.Detail
		case body.Error != "":
			return body.Error
		case body.Message != "":
			return body.Message
		}
	}
	return fallback
}
