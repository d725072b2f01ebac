package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	campusAuth "github.com/MrEthical07/campusAuth"
)

const envPrefix = "CAMPUS"

// Settings is the daemon configuration. Every key can be set in the YAML
// file or as CAMPUS_<SECTION>_<KEY>, e.g. CAMPUS_TOKEN_SECRET.
type Settings struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		AllowOrigins    []string      `mapstructure:"allow_origins"`
		TrustedProxies  []string      `mapstructure:"trusted_proxies"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Redis struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"redis"`

	Token struct {
		Secret         string        `mapstructure:"secret"`
		SigningMethod  string        `mapstructure:"signing_method"`
		PrivateKeyFile string        `mapstructure:"private_key_file"`
		PublicKeyFile  string        `mapstructure:"public_key_file"`
		TTL            time.Duration `mapstructure:"ttl"`
		Issuer         string        `mapstructure:"issuer"`
		Leeway         time.Duration `mapstructure:"leeway"`
		KeyID          string        `mapstructure:"key_id"`
	} `mapstructure:"token"`

	Password struct {
		MinLength      int  `mapstructure:"min_length"`
		UpgradeOnLogin bool `mapstructure:"upgrade_on_login"`
	} `mapstructure:"password"`

	Security struct {
		LoginThrottle    bool          `mapstructure:"login_throttle"`
		IPThrottle       bool          `mapstructure:"ip_throttle"`
		MaxLoginAttempts int           `mapstructure:"max_login_attempts"`
		LoginCooldown    time.Duration `mapstructure:"login_cooldown"`
		RateLimitPrefix  string        `mapstructure:"rate_limit_prefix"`
		RevalidateRole   bool          `mapstructure:"revalidate_role"`
	} `mapstructure:"security"`

	Registration struct {
		Open        bool   `mapstructure:"open"`
		DefaultRole string `mapstructure:"default_role"`
	} `mapstructure:"registration"`

	Bootstrap struct {
		Username string `mapstructure:"username"`
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
	} `mapstructure:"bootstrap"`

	Audit struct {
		Enabled    bool `mapstructure:"enabled"`
		BufferSize int  `mapstructure:"buffer_size"`
	} `mapstructure:"audit"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Latency bool `mapstructure:"latency"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	def := campusAuth.DefaultConfig()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allow_origins", []string{})
	v.SetDefault("http.trusted_proxies", []string{})
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.dsn", "")
	v.SetDefault("redis.url", "")

	v.SetDefault("token.secret", "")
	v.SetDefault("token.signing_method", def.Token.SigningMethod)
	v.SetDefault("token.private_key_file", "")
	v.SetDefault("token.public_key_file", "")
	v.SetDefault("token.ttl", def.Token.TTL)
	v.SetDefault("token.issuer", def.Token.Issuer)
	v.SetDefault("token.leeway", def.Token.Leeway)
	v.SetDefault("token.key_id", "")

	v.SetDefault("password.min_length", def.Password.MinLength)
	v.SetDefault("password.upgrade_on_login", def.Password.UpgradeOnLogin)

	v.SetDefault("security.login_throttle", def.Security.EnableLoginThrottle)
	v.SetDefault("security.ip_throttle", def.Security.EnableIPThrottle)
	v.SetDefault("security.max_login_attempts", def.Security.MaxLoginAttempts)
	v.SetDefault("security.login_cooldown", def.Security.LoginCooldownDuration)
	v.SetDefault("security.rate_limit_prefix", def.Security.RateLimitPrefix)
	v.SetDefault("security.revalidate_role", def.Security.RevalidateRole)

	v.SetDefault("registration.open", def.Registration.AllowOpenRegistration)
	v.SetDefault("registration.default_role", string(def.Registration.DefaultRole))

	v.SetDefault("bootstrap.username", "")
	v.SetDefault("bootstrap.email", "")
	v.SetDefault("bootstrap.password", "")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.buffer_size", def.Audit.BufferSize)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.latency", true)
}

// LoadSettings reads an optional .env file, an optional YAML file, then
// the environment. Later sources win.
func LoadSettings(configFile, envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &s, nil
}

// EngineConfig converts the settings into an engine configuration.
func (s *Settings) EngineConfig() (campusAuth.Config, error) {
	cfg := campusAuth.DefaultConfig()

	cfg.Token.SigningMethod = strings.ToLower(s.Token.SigningMethod)
	cfg.Token.Secret = []byte(s.Token.Secret)
	cfg.Token.TTL = s.Token.TTL
	cfg.Token.Issuer = s.Token.Issuer
	cfg.Token.Leeway = s.Token.Leeway
	cfg.Token.KeyID = s.Token.KeyID
	if s.Token.PrivateKeyFile != "" {
		key, err := os.ReadFile(s.Token.PrivateKeyFile)
		if err != nil {
			return cfg, fmt.Errorf("read private key: %w", err)
		}
		cfg.Token.PrivateKey = key
	}
	if s.Token.PublicKeyFile != "" {
		key, err := os.ReadFile(s.Token.PublicKeyFile)
		if err != nil {
			return cfg, fmt.Errorf("read public key: %w", err)
		}
		cfg.Token.PublicKey = key
	}

	cfg.Password.MinLength = s.Password.MinLength
	cfg.Password.UpgradeOnLogin = s.Password.UpgradeOnLogin

	cfg.Security.EnableLoginThrottle = s.Security.LoginThrottle
	cfg.Security.EnableIPThrottle = s.Security.IPThrottle
	cfg.Security.MaxLoginAttempts = s.Security.MaxLoginAttempts
	cfg.Security.LoginCooldownDuration = s.Security.LoginCooldown
	cfg.Security.RateLimitPrefix = s.Security.RateLimitPrefix
	cfg.Security.RevalidateRole = s.Security.RevalidateRole

	role, err := campusAuth.ParseRole(s.Registration.DefaultRole)
	if err != nil {
		return cfg, fmt.Errorf("registration.default_role %q: %w", s.Registration.DefaultRole, err)
	}
	cfg.Registration.DefaultRole = role
	cfg.Registration.AllowOpenRegistration = s.Registration.Open

	cfg.Bootstrap = campusAuth.BootstrapConfig{
		Username: s.Bootstrap.Username,
		Email:    s.Bootstrap.Email,
		Password: s.Bootstrap.Password,
	}

	cfg.Audit.Enabled = s.Audit.Enabled
	cfg.Audit.BufferSize = s.Audit.BufferSize

	cfg.Metrics.Enabled = s.Metrics.Enabled
	cfg.Metrics.EnableLatencyHistograms = s.Metrics.Latency

	return cfg, cfg.Validate()
}
