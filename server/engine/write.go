package engine

import (
	"fmt"

	"github.com/s00inx/oldhttp/server/protocol"
)

// render and write a response in one Write, the buffer comes from a pool
// inside WriteTo so we don't alloc new bufs for every resp
func (s *Session) write(res *protocol.Response) error {
	n, err := res.WriteTo(s.conn)
	if err != nil {
		return fmt.Errorf("write %d response: %w", res.Status.Code(), err)
	}
	s.opts.Metrics.Responded(res, n)
	return nil
}
