package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Connect returns nil when addr is empty or Redis does not answer; callers
// treat a nil client as "cache disabled".
func Connect(addr, password string, db int) *redis.Client {
	if addr == "" {
		log.Println("level=info msg=REDIS_ADDR not set, user cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("level=warn msg=redis connection failed, user cache disabled err=%v", err)
		_ = client.Close()
		return nil
	}

	log.Println("level=info msg=connected to redis")
	return client
}
