package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/config"
)

// kafkaLogger adapts kafka-go's printf-style logging onto zap.
type kafkaLogger struct {
	log   *zap.Logger
	level zap.AtomicLevel
}

func newKafkaLogger(log *zap.Logger, level zap.AtomicLevel) kafkaLogger {
	return kafkaLogger{log: log.WithOptions(zap.AddCallerSkip(1)), level: level}
}

func (l kafkaLogger) Printf(msg string, args ...interface{}) {
	l.log.Log(l.level.Level(), fmt.Sprintf(msg, args...))
}

// Consumer reads raw sample payloads from the sample topic and forwards
// them downstream untouched; decoding happens in the parser stage.
type Consumer struct {
	reader *kafka.Reader
	output chan<- []byte
	cfg    config.KafkaConfig
	logger *zap.Logger
}

// NewConsumer creates and configures a Kafka consumer for the sample topic.
func NewConsumer(cfg config.KafkaConfig, output chan<- []byte, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.String("group_id", cfg.GroupID),
		)
		return nil, ErrInvalidKafkaConfig
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		Logger:      newKafkaLogger(logger.Named("kafka-reader"), zap.NewAtomicLevelAt(zap.InfoLevel)),
		ErrorLogger: newKafkaLogger(logger.Named("kafka-reader-error"), zap.NewAtomicLevelAt(zap.ErrorLevel)),
	})

	logger.Info("Kafka consumer created",
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Consumer{
		reader: reader,
		output: output,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run blocks reading sample payloads until the context is cancelled or an
// unrecoverable fetch error occurs.
func (c *Consumer) Run(ctx context.Context) error {
	sugar := c.logger.Sugar()
	sugar.Info("Starting sample consumer loop...")

	defer func() {
		if err := c.reader.Close(); err != nil {
			sugar.Errorw("Failed to close Kafka reader cleanly", zap.Error(err))
		}
		sugar.Info("Sample consumer loop stopped.")
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Debug("Context done, stopping consumer fetch loop.", zap.Error(err))
				return context.Canceled
			}
			c.logger.Error("Error fetching sample from Kafka", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
		}

		select {
		case c.output <- m.Value:

		case <-ctx.Done():
			c.logger.Debug("Context cancelled while forwarding sample.", zap.Error(ctx.Err()))
			return context.Canceled
		}
	}
}
