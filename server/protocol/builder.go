package protocol

import (
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// lookup table for status lines
// reason phrases are fixed for wire compatibility, typo included
var statusLines = [...]string{
	StatusOK:                  "200 Ok",
	StatusBadRequest:          "400 Bad Request",
	StatusNotFound:            "404 Not Fonud",
	StatusInternalServerError: "500 Internal Server Error",
}

// for fast access
const (
	proto = "HTTP/1.0 "
	crlf  = "\r\n"
	colon = ": "
)

// AppendTo renders r onto dst in r's dialect.
func (r *Response) AppendTo(dst []byte) ([]byte, error) {
	switch r.Version {
	case V09:
		// 0.9 has no response metadata at all
		return append(dst, r.Body...), nil
	case V10:
		return r.append10(dst)
	}
	return dst, fmt.Errorf("%w: %d", ErrUnknownVersion, uint8(r.Version))
}

func (r *Response) append10(dst []byte) ([]byte, error) {
	if int(r.Status) >= len(statusLines) {
		return dst, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(r.Status))
	}

	dst = append(dst, proto...)
	dst = append(dst, statusLines[r.Status]...)
	dst = append(dst, crlf...)

	for _, name := range r.names {
		val := r.values[name]
		dst = append(dst, name...)
		if val == nil {
			dst = append(dst, ':')
		} else {
			dst = append(dst, colon...)
			dst = append(dst, val...)
		}
		dst = append(dst, crlf...)
	}

	// Content-Length is computed only when the handler did not set one
	if _, ok := r.values[contentLength]; !ok && r.Body != nil {
		dst = append(dst, contentLength...)
		dst = append(dst, colon...)
		dst = strconv.AppendInt(dst, int64(len(r.Body)), 10)
		dst = append(dst, crlf...)
	}

	dst = append(dst, crlf...)
	return append(dst, r.Body...), nil
}

// WriteTo renders r into a pooled buffer and writes it with a single Write.
// Nothing reaches w when rendering fails.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	var err error
	if b.B, err = r.AppendTo(b.B); err != nil {
		return 0, err
	}
	n, err := w.Write(b.B)
	return int64(n), err
}
