package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "TICKER_SCANNER_CONFIG"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	logLevelEnv      = "LOG_LEVEL"
	logDirEnv        = "LOG_DIR"
	smtpServerEnv    = "SMTP_SERVER"
	smtpPortEnv      = "SMTP_PORT"
	smtpUserEnv      = "SMTP_USER"
	smtpPassEnv      = "SMTP_PASS"
	emailToEnv       = "EMAIL_TO"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Telegram TelegramConfig `yaml:"telegram"`
	HTTP     HTTPConfig     `yaml:"http"`
	Chart    ChartConfig    `yaml:"chart"`
	Filings  FilingsConfig  `yaml:"filings"`
	Email    EmailConfig    `yaml:"email"`
	Sites    []SiteConfig   `yaml:"sites"`
}

// LoggingConfig selects the level and the directory holding per-component log files.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// TelegramConfig wires all data required to poll updates and send messages.
type TelegramConfig struct {
	APIURL     string        `yaml:"apiUrl"`
	BotToken   string        `yaml:"botToken"`
	RetryDelay time.Duration `yaml:"retryDelay"`
	IdleDelay  time.Duration `yaml:"idleDelay"`
	Timeout    time.Duration `yaml:"timeout"`
}

// HTTPConfig bounds every outbound scraping request.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// ChartConfig builds the chart link; {ticker} is substituted.
type ChartConfig struct {
	URLTemplate string `yaml:"urlTemplate"`
}

// FilingsConfig defines the zone filing dates are rendered in.
type FilingsConfig struct {
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the filings timezone string to a time.Location.
func (f FilingsConfig) Location() *time.Location {
	if f.location != nil {
		return f.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// EmailConfig holds SMTP settings for the optional summary mirror.
type EmailConfig struct {
	SMTPServer string `yaml:"smtpServer"`
	SMTPPort   int    `yaml:"smtpPort"`
	SMTPUser   string `yaml:"smtpUser"`
	SMTPPass   string `yaml:"smtpPass"`
	FromEmail  string `yaml:"fromEmail"`
	ToEmail    string `yaml:"toEmail"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.SMTPUser != "" && e.SMTPPass != "" && e.ToEmail != ""
}

// SiteConfig describes a single site with its scanner strategy. URL may contain {ticker}.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Options map[string]string `yaml:"options"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logDirEnv); v != "" {
		c.Logging.Dir = v
	}

	if v := os.Getenv(smtpServerEnv); v != "" {
		c.Email.SMTPServer = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.SMTPPort = port
		} else {
			log.Printf("config: invalid %s %q: %v", smtpPortEnv, v, err)
		}
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.Email.SMTPUser = v
	}
	if v := os.Getenv(smtpPassEnv); v != "" {
		c.Email.SMTPPass = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		c.Email.ToEmail = v
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUser
	}
}

func (c *Config) bindTimezone() {
	tz := c.Filings.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Filings.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}

	if override.Telegram.APIURL != "" {
		base.Telegram.APIURL = override.Telegram.APIURL
	}
	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.RetryDelay > 0 {
		base.Telegram.RetryDelay = override.Telegram.RetryDelay
	}
	if override.Telegram.IdleDelay > 0 {
		base.Telegram.IdleDelay = override.Telegram.IdleDelay
	}
	if override.Telegram.Timeout > 0 {
		base.Telegram.Timeout = override.Telegram.Timeout
	}

	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	if override.Chart.URLTemplate != "" {
		base.Chart.URLTemplate = override.Chart.URLTemplate
	}

	if override.Filings.Timezone != "" {
		base.Filings.Timezone = override.Filings.Timezone
	}

	if override.Email.SMTPServer != "" {
		port := base.Email.SMTPPort
		base.Email = override.Email
		if base.Email.SMTPPort == 0 {
			base.Email.SMTPPort = port
		}
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Dir: "log"},
		Telegram: TelegramConfig{
			APIURL:     "https://api.telegram.org",
			RetryDelay: 60 * time.Second,
			IdleDelay:  2 * time.Second,
			Timeout:    30 * time.Second,
		},
		HTTP:    HTTPConfig{Timeout: 20 * time.Second},
		Chart:   ChartConfig{URLTemplate: "https://finviz.com/quote.ashx?t={ticker}"},
		Filings: FilingsConfig{Timezone: defaultTimezone, location: tz},
		Email:   EmailConfig{SMTPServer: "", SMTPPort: 587},
		Sites: []SiteConfig{
			{Name: "finviz", Scanner: "finviz", URL: "https://finviz.com/quote.ashx"},
			{Name: "marketwatch", Scanner: "marketwatch", URL: "https://marketwatch.com/investing/stock/{ticker}"},
			{
				Name:    "otcmarkets",
				Scanner: "otcmarkets",
				URL:     "https://backend.otcmarkets.com/otcapi/company/sec-filings/{ticker}",
				Options: map[string]string{"filingUrl": "https://www.otcmarkets.com/filing/html"},
			},
		},
	}
}
