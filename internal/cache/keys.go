package cache

import "fmt"

// RefreshTokenKey builds the session-store key holding the user id a live
// refresh token belongs to. Presence of the key is what makes the token
// redeemable; logout deletes it.
func RefreshTokenKey(tokenID string) string {
	return fmt.Sprintf("auth:refresh:%s", tokenID)
}
