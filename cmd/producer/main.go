package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

// Synthetic sample producer for exercising the live monitor end to end:
// publishes timestamped sample envelopes at a nominal rate with jitter and
// occasional duplicate timestamps.

var (
	broker  = flag.String("broker", "localhost:9092", "Kafka broker address")
	topic   = flag.String("topic", "sensor-samples", "Kafka topic to publish to")
	stream  = flag.String("stream", "eye", "Stream name to stamp on each sample")
	rateHz  = flag.Float64("rate", 100.0, "Nominal sample rate in Hz")
	jitter  = flag.Float64("jitter", 0.1, "Relative jitter on the inter-sample interval")
	dupePct = flag.Float64("dupes", 0.01, "Fraction of samples that repeat the previous timestamp")
)

// sampleEnvelope matches what the live monitor expects: a stream name and
// a raw millisecond timestamp under the configured time field.
type sampleEnvelope struct {
	Stream      string  `json:"stream"`
	CaptureTime int64   `json:"capture_time"`
	GazeX       float64 `json:"gaze_x"`
	GazeY       float64 `json:"gaze_y"`
}

func main() {
	flag.Parse()

	writer := &kafka.Writer{
		Addr:     kafka.TCP(*broker),
		Topic:    *topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Fatalf("Error closing kafka writer: %v", err)
		}
	}()
	log.Printf("Producing %q samples at %.1f Hz to topic %s on %s", *stream, *rateHz, *topic, *broker)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		log.Println("Shutdown signal received, stopping producer...")
		cancel()
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	interval := time.Duration(float64(time.Second) / *rateHz)
	lastTS := time.Now().UnixMilli()

	for {
		select {
		case <-time.After(jitteredInterval(rng, interval, *jitter)):
			ts := time.Now().UnixMilli()
			if rng.Float64() < *dupePct {
				ts = lastTS // duplicate timestamp, exercises degenerate-interval handling
			}
			lastTS = ts

			msg := sampleEnvelope{
				Stream:      *stream,
				CaptureTime: ts,
				GazeX:       rng.NormFloat64() * 0.3,
				GazeY:       rng.NormFloat64() * 0.3,
			}
			msgBytes, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshalling sample: %v", err)
				continue
			}

			if err := writer.WriteMessages(ctx, kafka.Message{Value: msgBytes}); err != nil {
				if ctx.Err() != nil {
					log.Println("Context cancelled, exiting message loop.")
					return
				}
				log.Printf("Error writing sample: %v", err)
			}

		case <-ctx.Done():
			log.Println("Producer loop stopped.")
			return
		}
	}
}

func jitteredInterval(rng *rand.Rand, base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}
	factor := 1 + (rng.Float64()*2-1)*jitter
	return time.Duration(float64(base) * factor)
}
