package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AuthError indicates that the session is missing or has expired.
// It is returned by the client when a 401 or 403 response is received.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%d): %s", e.Status, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// FieldErrors carries the validation errors reported by a 400 response.
type FieldErrors struct {
	Message string
	Fields  map[string][]string
}

func (e *FieldErrors) Error() string {
	if summary := e.Summary(); summary != "" {
		return "validation failed: " + summary
	}
	return "validation failed"
}

// Summary joins the top-level message and every field error into one line.
// Fields are listed in name order.
func (e *FieldErrors) Summary() string {
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		msgs := strings.Join(e.Fields[name], " ")
		if name == "non_field_errors" || name == "__all__" {
			parts = append(parts, msgs)
			continue
		}
		parts = append(parts, name+": "+msgs)
	}
	return strings.Join(parts, "; ")
}

// AsFieldErrors extracts a *FieldErrors from err's chain.
func AsFieldErrors(err error) (*FieldErrors, bool) {
	var fe *FieldErrors
	ok := errors.As(err, &fe)
	return fe, ok
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s: %s", e.Status, e.Method, e.Path, e.Body)
}

// envelope is the {success, message, error, errors} shape used by the
// account endpoints. Task endpoints report field errors at the top level.
type envelope struct {
	Success *bool                      `json:"success"`
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Detail  string                     `json:"detail"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

// parseFieldErrors decodes a 400 body into FieldErrors.
func parseFieldErrors(body []byte) *FieldErrors {
	fe := &FieldErrors{Fields: map[string][]string{}}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		fe.Message = strings.TrimSpace(string(body))
		return fe
	}

	switch {
	case env.Error != "":
		fe.Message = env.Error
	case env.Detail != "":
		fe.Message = env.Detail
	case env.Success != nil && env.Message != "":
		fe.Message = env.Message
	}

	fields := env.Errors
	if fields == nil && env.Success == nil && env.Error == "" && env.Detail == "" {
		// Bare serializer output: {"title": ["This field is required."]}.
		_ = json.Unmarshal(body, &fields)
	}
	for name, raw := range fields {
		if msgs := decodeMessages(raw); len(msgs) > 0 {
			fe.Fields[name] = msgs
		}
	}
	return fe
}

// decodeMessages accepts a string, a list of strings, or anything else
// (rendered as raw JSON).
func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return []string{string(raw)}
}

// authMessage extracts a human message from a 401/403 body.
func authMessage(body []byte) string {
	var env envelope
	if json.Unmarshal(body, &env) == nil {
		switch {
		case env.Detail != "":
			return env.Detail
		case env.Error != "":
			return env.Error
		case env.Message != "":
			return env.Message
		}
	}
	return "not authenticated"
}
