package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// ProgressEvery is the number of expansions between progress messages.
	ProgressEvery int
}

func NewWebSocket() (*WebSocket, error) {
	ws := &WebSocket{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		ProgressEvery: 10_000,
	}

	if s, ok := os.LookupEnv("WS_PROGRESS_EVERY"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("WS_PROGRESS_EVERY must be a positive integer, got %q", s)
		}
		ws.ProgressEvery = n
	}

	return ws, nil
}
