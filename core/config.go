package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		Build        string
		AppName      string
		SecretKey    string
		RollbarToken string
		TokenFile    string // admin CLI token storage

		Server  ServerConfig
		Backend BackendConfig
		Session SessionConfig
		Cache   CacheConfig

		LoginRateLimit RateLimitConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		TrustProxy      bool // read client IPs from X-Forwarded-For set by a proxy on a private network
	}

	BackendConfig struct {
		BaseURL string
		Timeout time.Duration // 0: no timeout
	}

	SessionConfig struct {
		CookieName string
		MaxAge     time.Duration
		Secure     bool
	}

	CacheConfig struct {
		Size     int
		TTL      time.Duration
		RedisURL string // shared cache & rate limits when set
	}

	RateLimitConfig struct {
		Attempts int
		Window   time.Duration
	}
)

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if it exists) and the environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD; it is also the env vars prefix.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("appName", "لوحة تحكم اتحاد الطلبة")
	conf.SetDefault("secretKey", "k3n#v0x!m2q+7zr&dj9w(^s4h1c)e8@u5t-=yb$pl6a*gof")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("tokenFile", defaultTokenFile())
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8080")
	conf.SetDefault("server.debugAddress", ":4000")
	conf.SetDefault("server.readTimeout", 5*time.Second)
	conf.SetDefault("server.writeTimeout", 10*time.Second)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.trustProxy", false)
	conf.SetDefault("backend.baseURL", "http://localhost:3000/api/v1")
	conf.SetDefault("backend.timeout", time.Duration(0))
	conf.SetDefault("session.cookieName", "mediateam_session")
	conf.SetDefault("session.maxAge", 7*24*time.Hour)
	conf.SetDefault("session.secure", false)
	conf.SetDefault("cache.size", 256)
	conf.SetDefault("cache.ttl", 30*time.Second)
	conf.SetDefault("cache.redisURL", "")
	conf.SetDefault("loginRateLimit.attempts", 10)
	conf.SetDefault("loginRateLimit.window", time.Minute)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		Build:        conf.GetString("build"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		TokenFile:    conf.GetString("tokenFile"),
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			Address:         conf.GetString("server.address"),
			DebugHost:       conf.GetString("server.debugAddress"),
			ReadTimeout:     conf.GetDuration("server.readTimeout"),
			WriteTimeout:    conf.GetDuration("server.writeTimeout"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			TrustProxy:      conf.GetBool("server.trustProxy"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(conf.GetString("backend.baseURL"), "/"),
			Timeout: conf.GetDuration("backend.timeout"),
		},
		Session: SessionConfig{
			CookieName: conf.GetString("session.cookieName"),
			MaxAge:     conf.GetDuration("session.maxAge"),
			Secure:     conf.GetBool("session.secure"),
		},
		Cache: CacheConfig{
			Size:     conf.GetInt("cache.size"),
			TTL:      conf.GetDuration("cache.ttl"),
			RedisURL: conf.GetString("cache.redisURL"),
		},
		LoginRateLimit: RateLimitConfig{
			Attempts: conf.GetInt("loginRateLimit.attempts"),
			Window:   conf.GetDuration("loginRateLimit.window"),
		},
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mediateam", "session.json")
}
