// Package rtc issues room-join tokens for the external media transport.
// The transport itself (rooms, tracks, routing) is an external
// collaborator; this package only covers its token interface so the
// presentation layer can join the room, and so only the current seat
// holder receives a publish grant.
package rtc

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Grant describes what a room token permits.
type Grant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

// NewRoomToken builds and signs an HS256 JWT granting the identity
// access to the room.  The token embeds the grant under the "video"
// claim, which is the shape the media provider's SDK expects.  It
// expires after ttl.
func NewRoomToken(apiKey, apiSecret, identity string, grant Grant, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":   apiKey,
		"sub":   identity,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"video": grant,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(apiSecret))
}
