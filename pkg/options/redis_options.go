package options

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

var _ IOptions = (*RedisOptions)(nil)

// RedisOptions configures the Redis connection used to publish notifications.
type RedisOptions struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`

	// ChannelPrefix is prepended to every pub/sub channel.
	ChannelPrefix string `json:"channel-prefix" mapstructure:"channel-prefix"`

	DialTimeout time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
	PoolSize    int           `json:"pool-size" mapstructure:"pool-size"`
}

func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Addr:          "127.0.0.1:6379",
		ChannelPrefix: "fleetcare:notifications",
		DialTimeout:   5 * time.Second,
		PoolSize:      10,
	}
}

func (o *RedisOptions) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if err := ValidateAddress(o.Addr); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (o *RedisOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, "redis.enabled", o.Enabled, "Publish notifications to Redis pub/sub.")
	fs.StringVar(&o.Addr, "redis.addr", o.Addr, "Redis server address.")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password.")
	fs.IntVar(&o.DB, "redis.db", o.DB, "Redis database number.")
	fs.StringVar(&o.ChannelPrefix, "redis.channel-prefix", o.ChannelPrefix, "Prefix of the pub/sub channels notifications are published on.")
	fs.DurationVar(&o.DialTimeout, "redis.dial-timeout", o.DialTimeout, "Timeout for establishing Redis connections.")
	fs.IntVar(&o.PoolSize, "redis.pool-size", o.PoolSize, "Maximum number of Redis connections.")
}

// ToClientOptions converts the options into a go-redis client configuration.
func (o *RedisOptions) ToClientOptions() *redis.Options {
	return &redis.Options{
		Addr:        o.Addr,
		Password:    o.Password,
		DB:          o.DB,
		DialTimeout: o.DialTimeout,
		PoolSize:    o.PoolSize,
	}
}
