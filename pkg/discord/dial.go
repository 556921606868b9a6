package discord

import (
	"fmt"

	"github.com/gorilla/websocket"
)

// DialGateway opens the gateway websocket. Authentication happens inside
// the identify frame, not at dial time.
func DialGateway() (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(GatewayURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial discord gateway: %w", err)
	}
	return conn, nil
}
