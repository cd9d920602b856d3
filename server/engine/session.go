// session management: one accepted connection, one request, then close
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/s00inx/oldhttp/server/metrics"
	"github.com/s00inx/oldhttp/server/protocol"
)

const (
	DefaultReadChunk  = 1024
	DefaultMaxRequest = 1 << 20
)

var errNoResponse = errors.New("engine: handler returned no response")

// Handler turns a complete request into a response. An error is an
// unexpected failure and is answered with a 500 carrying its text.
type Handler interface {
	Handle(req *protocol.Request) (*protocol.Response, error)
}

type Options struct {
	ReadChunk  int // bytes per read, DefaultReadChunk when 0
	MaxRequest int // accumulation cap, 0 means no cap

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Session owns one connection exclusively. There are no read deadlines:
// a silent peer keeps its session open for as long as it likes.
type Session struct {
	ID string

	conn net.Conn
	h    Handler
	opts Options
	log  *slog.Logger

	buf []byte // accumulation buffer, append only
}

func NewSession(conn net.Conn, h Handler, opts Options) *Session {
	if opts.ReadChunk <= 0 {
		opts.ReadChunk = DefaultReadChunk
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	remote := ""
	if a := conn.RemoteAddr(); a != nil {
		remote = a.String()
	}

	id := uuid.NewString()
	return &Session{
		ID:   id,
		conn: conn,
		h:    h,
		opts: opts,
		log:  log.With("session", id, "remote", remote),
	}
}

// Run drives the session to its end: a written response, a parse error
// answered with 400, or the peer going away. It does not close the
// connection; the returned error is a transport failure for logging.
func (s *Session) Run() error {
	m := s.opts.Metrics
	m.SessionStarted()
	defer m.SessionFinished()

	chunk := make([]byte, s.opts.ReadChunk)
	for {
		n, rerr := s.conn.Read(chunk)
		if n > 0 {
			m.Read(n)
			s.buf = append(s.buf, chunk[:n]...)

			out := protocol.Parse(s.buf)
			m.Parsed(out.State)
			switch out.State {
			case protocol.Complete:
				return s.serve(out.Value)
			case protocol.Error:
				s.log.Debug("bad request", "cause", out.Cause)
				return s.reject()
			}

			if s.opts.MaxRequest > 0 && len(s.buf) > s.opts.MaxRequest {
				s.log.Debug("request too large", "size", len(s.buf))
				return s.reject()
			}
		}

		if n == 0 || rerr != nil {
			if rerr == nil || errors.Is(rerr, io.EOF) {
				// peer is gone, nobody to answer
				s.log.Debug("peer closed", "buffered", len(s.buf))
				return nil
			}
			return fmt.Errorf("read: %w", rerr)
		}
	}
}

// 400 over 1.0 framing with an empty body
func (s *Session) reject() error {
	return s.write(protocol.NewResponse(protocol.StatusBadRequest))
}

func (s *Session) serve(req *protocol.Request) error {
	s.log.Debug("request", "method", req.Method, "path", req.Path, "version", req.Version)

	res, err := s.h.Handle(req)
	if err == nil && res == nil {
		err = errNoResponse
	}
	if err == nil {
		err = s.write(res)
		if err == nil {
			s.log.Info("served", "method", req.Method, "path", req.Path, "status", res.Status.Code())
			return nil
		}
	}

	// degrade once, never retried
	s.log.Warn("response failed", "err", err)
	fail := protocol.NewResponse(protocol.StatusInternalServerError)
	fail.Version = req.Version
	fail.Body = []byte(err.Error())
	if werr := s.write(fail); werr != nil {
		return errors.Join(err, werr)
	}
	return nil
}
