// internal/server/ws_codes.go
package server

// Custom WebSocket close codes, giving clients a more specific reason than
// the standard set.
const (
	BadSubprotocolCode = 3000 // Client connected with an unsupported subprotocol.
	RoomFullCode       = 3001 // Room already holds the maximum number of players.
)
