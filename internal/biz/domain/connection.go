package domain

// ConnectionState represents the channel connection state
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateQRPending    ConnectionState = "qr_pending"
	StateConnected    ConnectionState = "connected"
	StateError        ConnectionState = "error"
)

// IsConnected checks if the state allows polling and timers to run
func (s ConnectionState) IsConnected() bool {
	return s == StateConnected
}

// ParseConnectionState maps a status string reported by the bridge service
// to a connection state. Unknown values map to the error state.
func ParseConnectionState(raw string) ConnectionState {
	switch ConnectionState(raw) {
	case StateDisconnected, StateConnecting, StateQRPending, StateConnected, StateError:
		return ConnectionState(raw)
	case "qr":
		return StateQRPending
	default:
		return StateError
	}
}
