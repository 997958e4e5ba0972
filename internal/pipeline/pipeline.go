package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/config"
	"github.com/bricklab/ratelens/internal/message"
)

// Pipeline orchestrates the live-monitor stages: consumer, parsing, rate
// calculation, alerting.
type Pipeline struct {
	cfg        *config.Config
	consumer   *Consumer
	calculator *Calculator
	alerter    *Alerter
	logger     *zap.Logger

	rawMessages   chan []byte
	parsedSamples chan message.Sample
	windowResults chan WindowResult
}

// New creates and wires up a new live monitoring pipeline.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")
	initLogger.Debug("Creating pipeline components...")

	const channelBufferSize = 100
	rawMessages := make(chan []byte, channelBufferSize)
	parsedSamples := make(chan message.Sample, channelBufferSize)
	windowResults := make(chan WindowResult, channelBufferSize)

	consumer, err := NewConsumer(cfg.Live.Kafka, rawMessages, logger.Named("consumer"))
	if err != nil {
		initLogger.Error("Failed to create consumer", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConsumerCreationFailed, err)
	}

	calculator := NewCalculator(cfg.Live, parsedSamples, windowResults, logger.Named("calculator"))
	alerter := NewAlerter(cfg.Live.Streams, windowResults, logger.Named("alerter"))

	p := &Pipeline{
		cfg:           cfg,
		consumer:      consumer,
		calculator:    calculator,
		alerter:       alerter,
		logger:        logger.Named("pipeline"),
		rawMessages:   rawMessages,
		parsedSamples: parsedSamples,
		windowResults: windowResults,
	}

	initLogger.Info("Pipeline instance created successfully")
	return p, nil
}

// Run starts all pipeline components and waits for them to complete or for
// context cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	var wg sync.WaitGroup
	pipelineErr := make(chan error, 4) // consumer, parser, calculator, alerter

	sugar.Info("Pipeline Run: Starting components...")

	wg.Add(4)
	go p.runConsumer(ctx, &wg, pipelineErr)
	go p.runParser(ctx, &wg)
	go p.runCalculator(ctx, &wg, pipelineErr)
	go p.runAlerter(ctx, &wg, pipelineErr)

	// Wait for context cancellation or the first error from any component
	var firstErr error
	select {
	case <-ctx.Done():
		sugar.Info("Pipeline Run: Context cancelled. Waiting for components to finish...")
		firstErr = ctx.Err()
	case err := <-pipelineErr:
		sugar.Errorw("Pipeline Run: Received error from a component, initiating shutdown...", zap.Error(err))
		firstErr = err
	}

	wg.Wait()
	sugar.Info("Pipeline Run: All components finished.")

	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		return firstErr
	}
	return nil
}

// runConsumer executes the consumer component logic in a goroutine.
func (p *Pipeline) runConsumer(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer func() {
		close(p.rawMessages)
		p.logger.Debug("Raw messages channel closed")
	}()

	if err := p.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Consumer component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrConsumerRunFailed, err)
	} else {
		p.logger.Debug("Consumer goroutine finished")
	}
}

// runParser decodes raw payloads into samples; malformed payloads are
// skipped, not fatal.
func (p *Pipeline) runParser(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() {
		close(p.parsedSamples)
		p.logger.Debug("Parsed samples channel closed")
	}()

	parserLogger := p.logger.Named("parser").Sugar()

	for {
		select {
		case raw, ok := <-p.rawMessages:
			if !ok {
				parserLogger.Debug("Parser finished (raw message channel closed).")
				return
			}

			sample, err := message.Parse(raw)
			if err != nil {
				parserLogger.Warnw("Failed to parse sample, skipping", zap.Error(err))
				continue
			}

			select {
			case p.parsedSamples <- sample:

			case <-ctx.Done():
				parserLogger.Debug("Parser context cancelled during send.", zap.Error(ctx.Err()))
				return
			}

		case <-ctx.Done():
			parserLogger.Debug("Parser context cancelled while waiting for raw message.", zap.Error(ctx.Err()))
			return
		}
	}
}

// runCalculator executes the calculator component logic in a goroutine.
func (p *Pipeline) runCalculator(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer func() {
		close(p.windowResults)
		p.logger.Debug("Window results channel closed")
	}()

	if err := p.calculator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Calculator component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrCalculatorRunFailed, err)
	} else {
		p.logger.Debug("Calculator goroutine finished")
	}
}

// runAlerter executes the alerter component logic in a goroutine.
func (p *Pipeline) runAlerter(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	if err := p.alerter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Alerter component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrAlerterRunFailed, err)
	} else {
		p.logger.Debug("Alerter goroutine finished")
	}
}
