package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Gamma     GammaConfig     `mapstructure:"gamma"`
	News      NewsConfig      `mapstructure:"news"`
	Reddit    RedditConfig    `mapstructure:"reddit"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr   string `mapstructure:"http_addr"`
	CronSecret string `mapstructure:"cron_secret"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Generate string `mapstructure:"generate"`
}

type GammaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NewsConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	WindowHours int           `mapstructure:"window_hours"`
	PageSize    int           `mapstructure:"page_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RedditConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	UserAgent    string        `mapstructure:"user_agent"`
	AuthURL      string        `mapstructure:"auth_url"`
	APIURL       string        `mapstructure:"api_url"`
	Subreddits   []string      `mapstructure:"subreddits"`
	SearchLimit  int           `mapstructure:"search_limit"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type EngineConfig struct {
	MarketLimit     int     `mapstructure:"market_limit"`
	MinVolume       float64 `mapstructure:"min_volume"`
	StoreThreshold  int     `mapstructure:"store_threshold"`
	WhaleEstimation bool    `mapstructure:"whale_estimation"`
}

type NotifyConfig struct {
	TelegramEnabled bool   `mapstructure:"telegram_enabled"`
	TelegramToken   string `mapstructure:"telegram_token"`
	TelegramChatID  int64  `mapstructure:"telegram_chat_id"`
	MinUrgency      string `mapstructure:"min_urgency"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.cron_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.generate", "@every 5m")
	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.timeout", "15s")
	v.SetDefault("news.base_url", "https://newsapi.org")
	v.SetDefault("news.window_hours", 48)
	v.SetDefault("news.page_size", 5)
	v.SetDefault("news.timeout", "15s")
	v.SetDefault("reddit.user_agent", "PolyOracle/1.0")
	v.SetDefault("reddit.auth_url", "https://www.reddit.com/api/v1/access_token")
	v.SetDefault("reddit.api_url", "https://oauth.reddit.com")
	v.SetDefault("reddit.subreddits", []string{"Polymarket", "PredictionMarkets"})
	v.SetDefault("reddit.search_limit", 3)
	// Reddit app tokens are issued for 1h; refresh a little early.
	v.SetDefault("reddit.token_ttl", "50m")
	v.SetDefault("reddit.timeout", "15s")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.timeout", "60s")
	v.SetDefault("engine.market_limit", 10)
	v.SetDefault("engine.min_volume", 50000)
	v.SetDefault("engine.store_threshold", 70)
	v.SetDefault("engine.whale_estimation", true)
	v.SetDefault("notify.telegram_enabled", false)
	v.SetDefault("notify.min_urgency", "HIGH")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the credentials the pipeline cannot run without. It is
// called once at startup so a missing key aborts before any network call.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Anthropic.APIKey) == "" {
		missing = append(missing, "anthropic.api_key")
	}
	if strings.TrimSpace(c.News.APIKey) == "" {
		missing = append(missing, "news.api_key")
	}
	if strings.TrimSpace(c.Reddit.ClientID) == "" {
		missing = append(missing, "reddit.client_id")
	}
	if strings.TrimSpace(c.Reddit.ClientSecret) == "" {
		missing = append(missing, "reddit.client_secret")
	}
	if strings.TrimSpace(c.Server.CronSecret) == "" {
		missing = append(missing, "server.cron_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
