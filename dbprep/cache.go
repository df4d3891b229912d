package dbprep

import (
	"github.com/gomodule/redigo/redis"
)

// ClearCache flushes everything from the cache at the given URL.
func ClearCache(redisURL string) error {
	conn, err := redis.DialURL(redisURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Do("FLUSHALL")
	return err
}
