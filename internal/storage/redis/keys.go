package redis

import "fmt"

// playersKey returns the Redis key holding the players document
func playersKey(prefix string) string {
	return fmt.Sprintf("%s:players", prefix)
}

// queueKey returns the Redis key holding the queue document
func queueKey(prefix string) string {
	return fmt.Sprintf("%s:queue", prefix)
}
