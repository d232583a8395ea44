package logging

import (
	"net"
	"sync"
	"time"
)

const sinkDialTimeout = 2 * time.Second

// TCPSink forwards log output to a remote collector over TCP.
// The connection is opened on first write and reopened on the next write
// after a failure. Write never reports an error, so a dead collector
// cannot break local logging.
type TCPSink struct {
	addr string

	mu      sync.Mutex
	conn    net.Conn
	lastErr error
}

// NewTCPSink creates a sink for addr (host:port). No connection is made yet.
func NewTCPSink(addr string) *TCPSink {
	return &TCPSink{addr: addr}
}

// Addr returns the configured collector address.
func (s *TCPSink) Addr() string {
	return s.addr
}

// Write sends p to the collector, dropping it if the collector is unreachable.
func (s *TCPSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, err := net.DialTimeout("tcp", s.addr, sinkDialTimeout)
		if err != nil {
			s.lastErr = err
			return len(p), nil
		}
		s.conn = conn
	}
	if _, err := s.conn.Write(p); err != nil {
		s.lastErr = err
		s.conn.Close()
		s.conn = nil
	}
	return len(p), nil
}

// Err returns the most recent dial or write error.
func (s *TCPSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close closes the current connection, if any.
func (s *TCPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
