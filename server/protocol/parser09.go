package protocol

import (
	"fmt"
	"unicode/utf8"
)

func parse09(buf []byte) Outcome[*Request] {
	req, err := readRequest09(buf)
	return outcomeOf(req, err)
}

// GET SP path CRLF
// 0.9 has no terminal condition other than CRLF, so a missing CRLF
// is always incomplete and never invalid
func readRequest09(buf []byte) (*Request, error) {
	c := cursor{buf: buf}
	if err := c.expect("GET "); err != nil {
		return nil, err
	}

	end := c.index("\r\n")
	if end == -1 {
		return nil, errIncomplete
	}
	path, _ := c.take(end)
	if !utf8.Valid(path) {
		return nil, fmt.Errorf("%w: path is not utf-8", errInvalid)
	}

	return &Request{
		Path:    string(path),
		Method:  MethodGet,
		Version: V09,
	}, nil
}
