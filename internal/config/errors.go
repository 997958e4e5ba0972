package config

import "errors"

var (
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrConfigFileMissing     = errors.New("config file not found")
	ErrNothingToDo           = errors.New("no datasets configured and live mode disabled")
	ErrDatasetName           = errors.New("dataset name cannot be empty")
	ErrDatasetPath           = errors.New("dataset path cannot be empty")
	ErrDatasetTimeColumn     = errors.New("dataset timeColumn cannot be empty")
	ErrDatasetSegmentColumns = errors.New("flagColumn and labelColumn must be set together")
	ErrUnknownTimeUnit       = errors.New("unrecognized time unit")
	ErrEmptyKafkaBrokers     = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic       = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID     = errors.New("kafka groupID cannot be empty")
	ErrInvalidWindow         = errors.New("live window must be positive")
	ErrNoStreams             = errors.New("live mode requires at least one stream")
	ErrStreamName            = errors.New("stream name cannot be empty")
	ErrStreamTimeField       = errors.New("stream timeField cannot be empty")
)
