// SPDX-License-Identifier: MIT
package transport

import (
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	applog "freqdetect/internal/log"
)

// WebSocket broadcasts results as JSON to every connected client on the
// /ws endpoint. Results are queued on a buffered channel and dropped when
// the queue is full, so Send never blocks the detection worker.
type WebSocket struct {
	listener  net.Listener
	server    *http.Server
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan Result
	done      chan struct{}
}

// NewWebSocket starts a WebSocket server on addr (e.g. "127.0.0.1:8080";
// port 0 picks a free port, see Addr).
func NewWebSocket(addr string) (*WebSocket, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	ws := &WebSocket{
		listener: listener,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Result, 256),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.handleWebSocket)
	ws.server = &http.Server{Handler: mux}

	go func() {
		applog.Infof("websocket: listening on %s", listener.Addr())
		if err := ws.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			applog.Errorf("websocket: server error: %v", err)
		}
	}()
	go ws.run()

	return ws, nil
}

// Addr returns the address the server is listening on.
func (ws *WebSocket) Addr() net.Addr {
	return ws.listener.Addr()
}

func (ws *WebSocket) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("websocket: upgrade error: %v", err)
		return
	}

	ws.clientsMu.Lock()
	ws.clients[conn] = true
	total := len(ws.clients)
	ws.clientsMu.Unlock()
	applog.Debugf("websocket: client connected, total %d", total)

	// Reads are only used to notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				ws.dropClient(conn)
				return
			}
		}
	}()
}

func (ws *WebSocket) dropClient(conn *websocket.Conn) {
	ws.clientsMu.Lock()
	delete(ws.clients, conn)
	total := len(ws.clients)
	ws.clientsMu.Unlock()
	conn.Close()
	applog.Debugf("websocket: client disconnected, total %d", total)
}

func (ws *WebSocket) run() {
	for {
		select {
		case <-ws.done:
			return
		case res := <-ws.broadcast:
			ws.clientsMu.Lock()
			for conn := range ws.clients {
				if err := conn.WriteJSON(res); err != nil {
					delete(ws.clients, conn)
					conn.Close()
				}
			}
			ws.clientsMu.Unlock()
		}
	}
}

// Send queues a result for broadcast, dropping it if the queue is full.
func (ws *WebSocket) Send(res Result) error {
	select {
	case ws.broadcast <- res:
	default:
	}
	return nil
}

// Close disconnects all clients and shuts down the server.
func (ws *WebSocket) Close() error {
	close(ws.done)

	ws.clientsMu.Lock()
	for conn := range ws.clients {
		conn.Close()
	}
	ws.clients = make(map[*websocket.Conn]bool)
	ws.clientsMu.Unlock()

	return ws.server.Close()
}

var _ Transport = (*WebSocket)(nil)
