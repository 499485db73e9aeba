package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	PubChem   PubChemConfig
	Export    ExportConfig
	Sessions  SessionsConfig
	RateLimit RateLimitConfig
	Site      SiteConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

// PubChemConfig controls the upstream PUG REST / PUG View clients.
// RequestsPerSecond follows PubChem's published usage policy (5 req/s).
type PubChemConfig struct {
	BaseURL           string
	ViewBaseURL       string
	TimeoutSec        int
	RequestsPerSecond float64
	Burst             int
}

type ExportConfig struct {
	PDFMarginMM     float64
	PDFScale        int
	JPEGMarginPX    int
	JPEGScale       int
	ImageTimeoutSec int
	ImageCacheTTL   int
	PictogramSizePX int
}

type SessionsConfig struct {
	TTLMinutes   int
	SweepMinutes int
}

type RateLimitConfig struct {
	Enabled              bool
	MaxRequestsPerMinute int
}

type SiteConfig struct {
	Name        string
	Description string
	NavItems    []NavItem
	Links       map[string]string
}

type NavItem struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/chemlabel")

	viper.SetEnvPrefix("CHEMLABEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3002)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("pubchem.baseURL", "https://pubchem.ncbi.nlm.nih.gov/rest/pug")
	viper.SetDefault("pubchem.viewBaseURL", "https://pubchem.ncbi.nlm.nih.gov/rest/pug_view")
	viper.SetDefault("pubchem.timeoutSec", 30)
	viper.SetDefault("pubchem.requestsPerSecond", 5)
	viper.SetDefault("pubchem.burst", 5)

	viper.SetDefault("export.pdfMarginMM", 5)
	viper.SetDefault("export.pdfScale", 3)
	viper.SetDefault("export.jpegMarginPX", 30)
	viper.SetDefault("export.jpegScale", 4)
	viper.SetDefault("export.imageTimeoutSec", 15)
	viper.SetDefault("export.imageCacheTTL", 60)
	viper.SetDefault("export.pictogramSizePX", 70)

	viper.SetDefault("sessions.ttlMinutes", 120)
	viper.SetDefault("sessions.sweepMinutes", 10)

	viper.SetDefault("ratelimit.enabled", false)
	viper.SetDefault("ratelimit.maxRequestsPerMinute", 120)

	viper.SetDefault("site.name", "GHS Label Generator | MyChemLabel 100% FREE")
	viper.SetDefault("site.description",
		"A free tool to create GHS-compliant labels quickly and easily. "+
			"Integrates PubChem CID lookup for auto-filling chemical data, "+
			"saving time and ensuring accuracy.")
	viper.SetDefault("site.navItems", []map[string]string{
		{"label": "PubChem to GHS", "href": "/"},
		{"label": "About", "href": "/about"},
	})
	viper.SetDefault("site.links", map[string]string{
		"github":  "#",
		"sponsor": "#",
	})

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
