// parse raw bytes to Request, dialect 1.0 first and 0.9 as fallback
// only parser logic, no state kept between calls
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const contentLength = "Content-Length"

// Parse tries to read one request from buf. It is meant to be called again
// with a longer buf every time it returns Partial; nothing is kept between
// calls, every call rescans from buf[0].
func Parse(buf []byte) Outcome[*Request] {
	out := parse10(buf)
	if out.State != Error {
		// a Partial 1.0 request must not be reread as 0.9
		return out
	}

	// 0.9 is a syntactic prefix of 1.0 so it only gets a chance
	// once the richer grammar has given up
	out09 := parse09(buf)
	if out09.State == Error {
		out09.Cause = errors.Join(out.Cause, out09.Cause)
	}
	return out09
}

func parse10(buf []byte) Outcome[*Request] {
	req, err := readRequest10(buf)
	return outcomeOf(req, err)
}

// METHOD SP path SP HTTP/1.0 CRLF *(header CRLF) CRLF [body]
func readRequest10(buf []byte) (*Request, error) {
	c := cursor{buf: buf}

	// find request method
	// TODO: a method still arriving (no SP yet) is reported invalid, not incomplete
	meth, ok := c.upto(" ")
	if !ok {
		return nil, fmt.Errorf("%w: method not terminated", errInvalid)
	}
	// anything that is not GET, HEAD or POST is kept raw as an extension
	c.pos++

	// find request path, same end-of-buffer caveat as the method
	path, ok := c.upto(" \t\r\n")
	if !ok {
		return nil, fmt.Errorf("%w: path not terminated", errInvalid)
	}
	if !utf8.Valid(path) {
		return nil, fmt.Errorf("%w: path is not utf-8", errInvalid)
	}
	if b, _ := c.peek(); b != ' ' {
		return nil, fmt.Errorf("%w: no version after path", errInvalid)
	}
	c.pos++

	if err := c.expect("HTTP/1.0"); err != nil {
		return nil, err
	}
	if err := c.expect("\r\n"); err != nil {
		return nil, err
	}

	req := &Request{
		Path:    string(path),
		Method:  methodOf(meth),
		Version: V10,
		Headers: make(map[string][]byte),
	}

	// find request headers, empty line means headers are over
	for {
		err := c.expect("\r\n")
		if err == nil {
			break
		}
		if errors.Is(err, errIncomplete) {
			return nil, err
		}

		name, val, err := readHeader(&c)
		if err != nil {
			return nil, err
		}
		req.Headers[string(name)] = val
	}

	// parsing body
	// note: no Content-Length means req has NO body
	cl, ok := req.Headers[contentLength]
	if !ok {
		return req, nil
	}
	if cl == nil {
		return nil, fmt.Errorf("%w: empty %s", errInvalid, contentLength)
	}
	n, err := strconv.ParseUint(string(cl), 10, strconv.IntSize-1)
	if err != nil {
		return nil, fmt.Errorf("%w: bad %s %q", errInvalid, contentLength, cl)
	}
	body, ok := c.take(int(n))
	if !ok {
		return nil, errIncomplete
	}
	req.Body = body

	return req, nil
}

// Name ": " [value] CRLF
// a nil value means CRLF came right after ": "
func readHeader(c *cursor) ([]byte, []byte, error) {
	name := c.span(isToken)
	if c.eof() {
		return nil, nil, errIncomplete
	}
	if len(name) == 0 {
		return nil, nil, fmt.Errorf("%w: bad header name", errInvalid)
	}
	if err := c.expect(":"); err != nil {
		return nil, nil, err
	}

	if err := c.expect(" "); err != nil {
		return nil, nil, err
	}
	err := c.expect("\r\n")
	if err == nil || errors.Is(err, errIncomplete) {
		return name, nil, err
	}

	// value runs to the first CR which must be followed by LF
	val, ok := c.upto("\r")
	if !ok {
		return nil, nil, errIncomplete
	}
	if err := c.expect("\r\n"); err != nil {
		return nil, nil, err
	}
	return name, val, nil
}
