package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bricklab/ratelens/internal/samplerate"
)

const (
	defaultKafkaGroupID   = "ratelens-default-group"
	defaultLiveWindow     = 10 * time.Second
	defaultMetricsAddr    = ":9090"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFileEnabled = false
	defaultLogDirectory   = "log"
	defaultLogFilename    = "app.log"
	defaultLogMaxSizeMB   = 100
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 7
	defaultLogCompress    = false

	// Environment variable prefix
	envPrefix = "RATELENS"
)

type Config struct {
	Datasets []DatasetConfig `mapstructure:"datasets"`
	Live     LiveConfig      `mapstructure:"live"`
	Log      LogConfig       `mapstructure:"log"`
}

// DatasetConfig describes one CSV dataset for batch analysis. FlagColumn
// and LabelColumn enable building-period segmentation and are only valid
// together. Unit pins the timestamp unit ("s", "ms", "us", "ns"); empty or
// "auto" runs the detector.
type DatasetConfig struct {
	Name        string `mapstructure:"name"`
	Path        string `mapstructure:"path"`
	TimeColumn  string `mapstructure:"timeColumn"`
	FlagColumn  string `mapstructure:"flagColumn"`
	LabelColumn string `mapstructure:"labelColumn"`
	Unit        string `mapstructure:"unit"`
}

// LiveConfig describes the streaming monitor: where samples come from, how
// wide the tumbling windows are, and which streams to track.
type LiveConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Kafka       KafkaConfig    `mapstructure:"kafka"`
	Window      time.Duration  `mapstructure:"window"`
	MetricsAddr string         `mapstructure:"metricsAddr"`
	Streams     []StreamConfig `mapstructure:"streams"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

// StreamConfig identifies one sample stream inside the Kafka topic and the
// rate band it is expected to stay within.
type StreamConfig struct {
	Name       string     `mapstructure:"name"`
	TimeField  string     `mapstructure:"timeField"`
	Unit       string     `mapstructure:"unit"`
	Thresholds Thresholds `mapstructure:"thresholds"`
}

type Thresholds struct {
	MinHz         *float64 `mapstructure:"minHz"`
	MaxHz         *float64 `mapstructure:"maxHz"`
	MaxDegenerate *int     `mapstructure:"maxDegenerate"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	// Read configuration from file (error if mandatory file is missing)
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal the configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("live.kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("live.window", defaultLiveWindow)
	v.SetDefault("live.metricsAddr", defaultMetricsAddr)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Datasets) == 0 && !cfg.Live.Enabled {
		return ErrNothingToDo
	}

	for i, ds := range cfg.Datasets {
		if err := validateDataset(ds); err != nil {
			return fmt.Errorf("datasets[%d]: %w", i, err)
		}
	}

	if cfg.Live.Enabled {
		if err := validateLive(&cfg.Live); err != nil {
			return err
		}
	}
	return nil
}

func validateDataset(ds DatasetConfig) error {
	if ds.Name == "" {
		return ErrDatasetName
	}
	if ds.Path == "" {
		return ErrDatasetPath
	}
	if ds.TimeColumn == "" {
		return ErrDatasetTimeColumn
	}
	if (ds.FlagColumn == "") != (ds.LabelColumn == "") {
		return ErrDatasetSegmentColumns
	}
	if _, ok := samplerate.ParseUnit(ds.Unit); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTimeUnit, ds.Unit)
	}
	return nil
}

func validateLive(live *LiveConfig) error {
	if len(live.Kafka.Brokers) == 0 {
		return ErrEmptyKafkaBrokers
	}
	if live.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	if live.Kafka.GroupID == "" {
		return ErrEmptyKafkaGroupID
	}
	if live.Window <= 0 {
		return ErrInvalidWindow
	}
	if len(live.Streams) == 0 {
		return ErrNoStreams
	}
	for i, s := range live.Streams {
		if s.Name == "" {
			return fmt.Errorf("streams[%d]: %w", i, ErrStreamName)
		}
		if s.TimeField == "" {
			return fmt.Errorf("streams[%d]: %w", i, ErrStreamTimeField)
		}
		if _, ok := samplerate.ParseUnit(s.Unit); !ok {
			return fmt.Errorf("streams[%d]: %w: %q", i, ErrUnknownTimeUnit, s.Unit)
		}
	}
	return nil
}
