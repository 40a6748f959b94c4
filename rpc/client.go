package rpc

import (
	"fmt"
	"net/rpc"
	"sync"
)

// Client is a connection to a Server, tracking its own outstanding handles
// the same way the teacher's rpc.Client tracked start->size locally.
type Client struct {
	id        int
	client    *rpc.Client
	allocated map[uint64]int // handle -> size
	mu        sync.Mutex
}

// NewClient dials address and wraps the connection.
func NewClient(id int, address string) (*Client, error) {
	client, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", address, err)
	}

	return &Client{
		id:        id,
		client:    client,
		allocated: make(map[uint64]int),
	}, nil
}

// Allocate requests size bytes from the server and returns the data and the
// handle needed to free it.
func (c *Client) Allocate(size int) ([]byte, uint64, error) {
	req := &AllocRequest{Size: size}
	resp := &AllocResponse{}

	if err := c.client.Call("Server.Allocate", req, resp); err != nil {
		return nil, 0, fmt.Errorf("rpc: Allocate call: %w", err)
	}
	if resp.Error != "" {
		return nil, 0, fmt.Errorf("rpc: server: %s", resp.Error)
	}

	c.mu.Lock()
	c.allocated[resp.Handle] = size
	c.mu.Unlock()

	return resp.Data, resp.Handle, nil
}

// Free returns a previously allocated handle to the server.
func (c *Client) Free(handle uint64) error {
	req := &FreeRequest{Handle: handle}
	resp := &FreeResponse{}

	if err := c.client.Call("Server.Free", req, resp); err != nil {
		return fmt.Errorf("rpc: Free call: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("rpc: server: %s", resp.Error)
	}

	c.mu.Lock()
	delete(c.allocated, handle)
	c.mu.Unlock()

	return nil
}

// Dump fetches the server allocator's debug dump text.
func (c *Client) Dump() (string, error) {
	resp := &DumpResponse{}
	if err := c.client.Call("Server.Dump", &DumpRequest{}, resp); err != nil {
		return "", fmt.Errorf("rpc: Dump call: %w", err)
	}
	return resp.Text, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
