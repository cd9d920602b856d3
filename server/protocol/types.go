package protocol

// Version is the dialect of a request or response. The zero value is 1.0.
type Version uint8

const (
	V10 Version = iota
	V09
)

func (v Version) String() string {
	switch v {
	case V10:
		return "HTTP/1.0"
	case V09:
		return "HTTP/0.9"
	}
	return "HTTP/?"
}

// Method is a request verb. Anything that is not one of the constants below
// is an extension method and keeps its raw token.
type Method string

const (
	MethodGet  Method = "GET"
	MethodHead Method = "HEAD"
	MethodPost Method = "POST"
)

func methodOf(tok []byte) Method {
	switch string(tok) {
	case "GET":
		return MethodGet
	case "HEAD":
		return MethodHead
	case "POST":
		return MethodPost
	}
	return Method(tok)
}

// IsExtension reports whether m is not GET, HEAD or POST.
func (m Method) IsExtension() bool {
	return m != MethodGet && m != MethodHead && m != MethodPost
}

// Request is one parsed request.
//
// Path and header names are copied out of the accumulation buffer, header
// values and Body alias it; the session only ever appends to that buffer, so
// they stay valid for the request's lifetime.
type Request struct {
	Path    string
	Method  Method
	Version Version

	// nil value means the header was sent without one (`Name:` + CRLF).
	// names are case-sensitive, a repeated name keeps the last value
	Headers map[string][]byte

	// nil when the request carried no Content-Length
	Body []byte
}

// Header returns the value stored for name and whether name was sent at all.
func (r *Request) Header(name string) ([]byte, bool) {
	v, ok := r.Headers[name]
	return v, ok
}
