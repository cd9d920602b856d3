// file handling is HTTP independent: request path in, Response out
package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/s00inx/oldhttp/server/protocol"
)

// ErrRoot is returned by New when the document root is unusable.
var ErrRoot = errors.New("handler: bad document root")

const sep = string(filepath.Separator)

// FileHandler serves files confined to one root directory.
type FileHandler struct {
	root string // canonical, symlink free
}

// New canonicalizes root once. This is the only failure reported as an
// error; everything per request becomes a status.
func New(root string) (*FileHandler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRoot, root, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRoot, root, err)
	}
	st, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRoot, root, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRoot, root)
	}
	return &FileHandler{root: canon}, nil
}

// Root returns the canonical document root.
func (h *FileHandler) Root() string {
	return h.root
}

// Handle never fails, the error is there to satisfy engine.Handler.
func (h *FileHandler) Handle(req *protocol.Request) (*protocol.Response, error) {
	res := h.serve(req)
	res.Version = req.Version
	return res, nil
}

func (h *FileHandler) serve(req *protocol.Request) *protocol.Response {
	target, st := h.resolve(req.Path)
	if st != protocol.StatusOK {
		return protocol.NewResponse(st)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return protocol.NewResponse(statusOf(err))
	}
	if data == nil {
		data = []byte{}
	}

	res := protocol.NewResponse(protocol.StatusOK)
	if err := res.SetHeaderString("Content-Type", mimetype.Detect(data).String()); err != nil {
		return protocol.NewResponse(protocol.StatusInternalServerError)
	}
	if req.Method == protocol.MethodHead {
		if err := res.SetHeaderString("Content-Length", strconv.Itoa(len(data))); err != nil {
			return protocol.NewResponse(protocol.StatusInternalServerError)
		}
		return res
	}
	res.Body = data
	return res
}

// resolve maps a request path onto a canonical path inside the root.
// symlinks and .. are resolved before the containment check, otherwise a
// link could lead out of the root unnoticed
func (h *FileHandler) resolve(path string) (string, protocol.Status) {
	// relative to root
	rel := strings.TrimLeft(path, "/"+sep)
	joined := h.root + sep + rel

	canon, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// nothing to canonicalize, so judge the path as written
		if errors.Is(err, fs.ErrNotExist) && !h.contains(filepath.Clean(joined)) {
			return "", protocol.StatusBadRequest
		}
		return "", statusOf(err)
	}
	if !h.contains(canon) {
		return "", protocol.StatusBadRequest
	}
	return canon, protocol.StatusOK
}

func (h *FileHandler) contains(p string) bool {
	if p == h.root {
		return true
	}
	prefix := h.root
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	return strings.HasPrefix(p, prefix)
}

func statusOf(err error) protocol.Status {
	if errors.Is(err, fs.ErrNotExist) {
		return protocol.StatusNotFound
	}
	return protocol.StatusInternalServerError
}
