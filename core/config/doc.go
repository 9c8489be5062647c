// Package config provides type-safe environment variable loading with
// caching. Each configuration struct type is parsed once and cached for
// subsequent calls; a .env file is read automatically on first use.
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Use MustLoad in main where a missing variable should stop startup.
package config
