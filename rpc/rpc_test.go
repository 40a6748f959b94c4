package rpc

import (
	"testing"
	"time"

	"github.com/shenjiangwei/segpool/pool"
	"github.com/stretchr/testify/require"
)

const testServerAddress = "localhost:17654"

func TestRPCClientServer(t *testing.T) {
	alloc := pool.New()
	require.NoError(t, alloc.Init([]int{16, 256, 4096}))

	server, err := NewServer(alloc)
	require.NoError(t, err)

	go func() {
		_ = server.Start(testServerAddress)
	}()
	time.Sleep(100 * time.Millisecond)

	numClients := 5
	clients := make([]*Client, numClients)
	for i := 0; i < numClients; i++ {
		c, err := NewClient(i, testServerAddress)
		require.NoError(t, err)
		clients[i] = c
		defer c.Close()
	}

	done := make(chan struct{})
	for i, c := range clients {
		go func(id int, c *Client) {
			defer func() { done <- struct{}{} }()

			data, handle, err := c.Allocate(256)
			if err != nil {
				t.Errorf("client %d allocate: %v", id, err)
				return
			}
			if len(data) != 256 {
				t.Errorf("client %d: expected 256 bytes, got %d", id, len(data))
			}

			if err := c.Free(handle); err != nil {
				t.Errorf("client %d free: %v", id, err)
			}
		}(i, c)
	}

	for range clients {
		<-done
	}

	dump, err := clients[0].Dump()
	require.NoError(t, err)
	require.Contains(t, dump, "pool.Allocator")
}
