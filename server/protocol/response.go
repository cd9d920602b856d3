package protocol

import (
	"bytes"
	"fmt"
	"strings"
)

// Status of a response. The zero value is StatusOK.
type Status uint8

const (
	StatusOK Status = iota
	StatusBadRequest
	StatusNotFound
	StatusInternalServerError
)

var statusCodes = [...]int{
	StatusOK:                  200,
	StatusBadRequest:          400,
	StatusNotFound:            404,
	StatusInternalServerError: 500,
}

// Code returns the numeric status code, 0 for an unknown status.
func (s Status) Code() int {
	if int(s) >= len(statusCodes) {
		return 0
	}
	return statusCodes[s]
}

func (s Status) String() string {
	if int(s) >= len(statusLines) {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusLines[s]
}

// Response is built by handlers and rendered by AppendTo / WriteTo.
//
// Headers are only reachable through SetHeader, which rejects CR and LF, so a
// Response can never carry a value that would break the header block.
type Response struct {
	Status  Status
	Version Version

	// nil means no body, an empty non-nil slice is a zero length body
	Body []byte

	names  []string // insertion order for printing
	values map[string][]byte
}

// NewResponse returns a 1.0 response with status s.
func NewResponse(s Status) *Response {
	return &Response{Status: s}
}

// SetHeader stores name with a copy of value, replacing any previous value.
// A nil value stores the header without a value.
func (r *Response) SetHeader(name string, value []byte) error {
	if name == "" || strings.IndexFunc(name, notToken) != -1 {
		return fmt.Errorf("%w: name %q", ErrInvalidHeader, name)
	}
	if bytes.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: value of %s contains a line break", ErrInvalidHeader, name)
	}

	if r.values == nil {
		r.values = make(map[string][]byte)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = bytes.Clone(value)
	return nil
}

func (r *Response) SetHeaderString(name, value string) error {
	return r.SetHeader(name, []byte(value))
}

// Header returns the stored value for name. ok is false when name is unset;
// a header stored without a value returns nil, true.
func (r *Response) Header(name string) (value []byte, ok bool) {
	value, ok = r.values[name]
	return value, ok
}

func (r *Response) DelHeader(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// VisitHeaders calls fn for every stored header in insertion order.
func (r *Response) VisitHeaders(fn func(name string, value []byte)) {
	for _, n := range r.names {
		fn(n, r.values[n])
	}
}
