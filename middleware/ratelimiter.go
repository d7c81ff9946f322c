package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

func newStore(client *redis.Client, prefix string) limiter.Store {
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: prefix,
	})
	if err != nil {
		log.Printf("redis limiter store unavailable (%v), falling back to memory", err)
		return memory.NewStore()
	}
	return store
}

// LoginRateLimiter throttles credential-guessing per IP: 10 attempts a
// minute, matching the login limiter of the upstream API contract.
func LoginRateLimiter(client *redis.Client) gin.HandlerFunc {
	store := newStore(client, "limiter:login")
	rate := limiter.Rate{Period: time.Minute, Limit: 10}
	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}

// ResetRateLimiter throttles password-reset requests per IP.
func ResetRateLimiter(client *redis.Client) gin.HandlerFunc {
	store := newStore(client, "limiter:reset")
	rate := limiter.Rate{Period: time.Minute, Limit: 5}
	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}

// APIRateLimiter is the coarse global limit.
func APIRateLimiter(client *redis.Client) gin.HandlerFunc {
	store := newStore(client, "limiter:api")
	rate := limiter.Rate{Period: 15 * time.Minute, Limit: 1000}
	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}
