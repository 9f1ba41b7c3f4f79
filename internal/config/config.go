package config

import "time"

// Config holds all runtime settings for the InsightHire backend.
type Config struct {
	Port          string        `koanf:"port"`
	DataDir       string        `koanf:"data_dir"`
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	IPLimitPerMin int           `koanf:"ip_limit_per_min"`
	AllowOrigins  []string      `koanf:"allow_origins"`
	EnableHSTS    bool          `koanf:"enable_hsts"`
}

// New returns a Config populated with development defaults.
func New() *Config {
	return &Config{
		Port:          "8080",
		DataDir:       "./data",
		JWTSecret:     "insighthire-dev-secret-change-in-production",
		TokenTTL:      24 * time.Hour,
		CacheTTL:      15 * time.Minute,
		IPLimitPerMin: 60,
		AllowOrigins:  []string{"http://localhost:3000"},
	}
}
