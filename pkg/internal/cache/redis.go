package cache

import (
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// R backs the session revocation list. It stays nil when redis is not
// configured or unreachable; revocation then degrades to a no-op.
var R *redis.Client

func NewRedis() {
	addr := viper.GetString("cache.redis_addr")
	if len(addr) == 0 {
		log.Warn().Msg("Redis is not configured, signing out will not revoke tokens.")
		return
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Error().Err(err).Msg("An error occurred when parsing redis url.")
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	R = redis.NewClient(opts)
}
