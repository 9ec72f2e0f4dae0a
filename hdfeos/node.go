package hdfeos

import (
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdfeos/internal/lifetime"
)

// session is shared by every handle of one Container. Its mutex guards the
// whole handle tree: the closed flags, the child registries and the lazy
// indexes. Cleanups run on their own goroutine and take it too.
type session struct {
	mu  sync.Mutex
	lib Library
	log logrus.FieldLogger
}

// node is the lifetime record behind a public handle. The public handle
// points at its node; the node never points back, so a dropped handle can
// be collected while its parent still reaches the node.
type node struct {
	s       *session
	kind    string
	name    string
	release func() error

	parent   *lifetime.Registry[*node]
	id       lifetime.ID
	children lifetime.Registry[*node]
	closed   bool
}

// newNodeLocked creates a node and registers it with parent, if any.
func (s *session) newNodeLocked(parent *node, kind, name string, release func() error) *node {
	n := &node{s: s, kind: kind, name: name, release: release}
	if parent != nil {
		n.parent = &parent.children
		n.id = parent.children.Add(n)
	}
	s.log.WithFields(logrus.Fields{"kind": kind, "name": name}).Debug("opened handle")
	return n
}

// checkLocked returns ErrClosed if the node is closed.
func (n *node) checkLocked(op string) error {
	if n.closed {
		return opError(op, n.name, ErrClosed)
	}
	return nil
}

// closeLocked closes every live child, unregisters from the parent and
// releases the raw handle. The node is marked closed before anything can
// fail, so a failed release is never retried.
func (n *node) closeLocked() error {
	if n.closed {
		return nil
	}
	n.closed = true
	if live := n.children.Len(); live > 0 {
		n.s.log.WithFields(logrus.Fields{"kind": n.kind, "name": n.name, "children": live}).Debug("closing open children")
	}

	var result *multierror.Error
	for {
		child, ok := n.children.Pop()
		if !ok {
			break
		}
		if err := child.closeLocked(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if n.parent != nil {
		n.parent.Remove(n.id)
		n.parent = nil
	}

	if n.release != nil {
		if err := n.release(); err != nil {
			result = multierror.Append(result, opError("close "+n.kind, n.name, err))
		}
		n.release = nil
	}

	n.s.log.WithFields(logrus.Fields{"kind": n.kind, "name": n.name}).Debug("closed handle")
	return result.ErrorOrNil()
}

// close is the public Close path.
func (n *node) close() error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	return n.closeLocked()
}

// track arranges for n to be closed if h is collected while still open.
// This only mitigates leaks; Close is the way to release a handle.
func track[T any](h *T, n *node) {
	runtime.AddCleanup(h, collectNode, n)
}

func collectNode(n *node) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if n.closed {
		return
	}
	log := n.s.log.WithFields(logrus.Fields{"kind": n.kind, "name": n.name})
	log.Warn("handle was garbage collected without Close; releasing it")
	if err := n.closeLocked(); err != nil {
		log.WithError(err).Warn("releasing collected handle")
	}
}
