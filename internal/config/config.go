package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// knownRegions are the coarse region buckets the host may select as the
// default regional view.
var knownRegions = map[string]struct{}{
	"Europe": {},
	"Asia":   {},
	"Lat-Am": {},
	"NA":     {},
	"AfME":   {},
	"USA":    {},
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Visual settings surface exposed by the host.
	MapTitle        string
	ViewRegionalMap bool
	DefaultRegion   string
	ShowHighlights  bool
	ShowHeaderImage bool
	ShowFooterImage bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is merged in first when
// present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "facility-table-snapshots"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "facility-map-views"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "facility-map-service"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		MapTitle:        envOrDefault("MAP_TITLE", "Facility Map"),
		ViewRegionalMap: envBool("VIEW_REGIONAL_MAP", false),
		DefaultRegion:   envOrDefault("DEFAULT_REGION", "Europe"),
		ShowHighlights:  envBool("SHOW_HIGHLIGHTS", true),
		ShowHeaderImage: envBool("SHOW_HEADER_IMAGE", false),
		ShowFooterImage: envBool("SHOW_FOOTER_IMAGE", false),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if _, ok := knownRegions[cfg.DefaultRegion]; !ok {
		return nil, fmt.Errorf("unknown DEFAULT_REGION %q", cfg.DefaultRegion)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
