// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"fmt"
	"net"
)

// UDP sends each result as a single JSON datagram to a fixed target
// address. Datagram loss is acceptable by design; delivery is
// best-effort like the rest of the publishing path.
type UDP struct {
	conn net.Conn
}

// NewUDP resolves addr (e.g. "127.0.0.1:9090") and returns a connected
// UDP transport.
func NewUDP(addr string) (*UDP, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udp transport: %w", err)
	}
	return &UDP{conn: conn}, nil
}

func (u *UDP) Send(res Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("udp transport: marshaling result: %w", err)
	}
	if _, err := u.conn.Write(data); err != nil {
		return fmt.Errorf("udp transport: %w", err)
	}
	return nil
}

func (u *UDP) Close() error {
	return u.conn.Close()
}

var _ Transport = (*UDP)(nil)
