// Package rpc exposes a pool.Allocator over net/rpc for out-of-process
// inspection and exercising, adapted from the teacher's rpc.Server/Client
// pair: instead of fronting an abstract disk-space bookkeeping allocator,
// this server fronts one real pool.Allocator instance and actually moves
// the requested bytes across the wire.
package rpc

import (
	"fmt"
	"net"
	"net/rpc"
	"strings"
	"sync"

	"github.com/shenjiangwei/segpool/pool"
)

// Server serves allocate/free/dump requests against a single pool.Allocator.
//
// Allocate/Free exchange an opaque Handle rather than round-tripping the
// allocated bytes' real address: addresses into the server's embedded heap
// mean nothing once serialised into an RPC response, so the server keeps
// the actual []byte alive locally, keyed by handle, the way the teacher's
// rpc.Client kept a local allocated map of start->size for its own
// bookkeeping.
type Server struct {
	alloc       *pool.Allocator
	mu          sync.Mutex
	outstanding map[uint64][]byte
	nextHandle  uint64
}

// AllocRequest requests n bytes.
type AllocRequest struct {
	Size int
}

// AllocResponse carries back the allocated bytes and the Handle needed to
// free them later, or Error if Size could not be served.
type AllocResponse struct {
	Handle uint64
	Data   []byte
	Error  string
}

// FreeRequest returns previously allocated bytes by Handle.
type FreeRequest struct {
	Handle uint64
}

// FreeResponse is empty on success; Error is set otherwise.
type FreeResponse struct {
	Error string
}

// DumpRequest has no fields; it is present for net/rpc's method shape.
type DumpRequest struct{}

// DumpResponse carries the allocator's debug dump as text.
type DumpResponse struct {
	Text string
}

// NewServer constructs a Server around an already-Init'd allocator.
func NewServer(alloc *pool.Allocator) (*Server, error) {
	if !alloc.Initialised() {
		return nil, fmt.Errorf("rpc: allocator must be initialised before serving")
	}

	s := &Server{alloc: alloc, outstanding: make(map[uint64][]byte)}
	if err := rpc.Register(s); err != nil {
		return nil, fmt.Errorf("rpc: register server: %w", err)
	}
	return s, nil
}

// Start accepts connections on address until the listener is closed.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("rpc: listen on %s: %w", address, err)
	}
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			return nil
		}
		go rpc.ServeConn(conn)
	}
}

// Allocate is the Server.Allocate RPC method.
func (s *Server) Allocate(req *AllocRequest, resp *AllocResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.alloc.Alloc(req.Size)
	if b == nil {
		resp.Error = "no pool available for requested size"
		return nil
	}

	s.nextHandle++
	handle := s.nextHandle
	s.outstanding[handle] = b

	resp.Handle = handle
	resp.Data = append([]byte(nil), b...)
	return nil
}

// Free is the Server.Free RPC method.
func (s *Server) Free(req *FreeRequest, resp *FreeResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.outstanding[req.Handle]
	if !ok {
		resp.Error = "unknown handle"
		return nil
	}
	delete(s.outstanding, req.Handle)
	s.alloc.Free(b)
	return nil
}

// Dump is the Server.Dump RPC method.
func (s *Server) Dump(req *DumpRequest, resp *DumpResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf strings.Builder
	s.alloc.Dump(&buf)
	resp.Text = buf.String()
	return nil
}
