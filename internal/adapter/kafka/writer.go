package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-report/internal/config"
	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/couchcryptid/quake-report/internal/observability"
)

// Writer publishes filtered seismic records to a Kafka topic.
// It implements pipeline.Exporter.
type Writer struct {
	writer  *kafkago.Writer
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, clock: clockwork.NewRealClock(), metrics: metrics, logger: logger}
}

// Publish serializes every record of the view and writes them in a single
// WriteMessages call. Records are keyed by their ID so re-exporting a year
// lands on the same partitions.
func (w *Writer) Publish(ctx context.Context, view domain.FilteredView) (int, error) {
	if view.Len() == 0 {
		return 0, nil
	}
	exportedAt := w.clock.Now()
	msgs := make([]kafkago.Message, view.Len())
	for i, r := range view.Records {
		msg, err := serializeToMessage(r, exportedAt)
		if err != nil {
			return 0, err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("publish records: %w", err)
	}
	w.metrics.RecordsExported.Add(float64(len(msgs)))
	w.logger.Info("records exported", "topic", w.writer.Topic, "year", view.Year, "count", len(msgs))
	return len(msgs), nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// seismicEvent is the exported wire form of a record.
type seismicEvent struct {
	ID string `json:"id"`
	domain.Record
}

// serializeToMessage marshals a Record into a Kafka message.
func serializeToMessage(r domain.Record, exportedAt time.Time) (kafkago.Message, error) {
	event := seismicEvent{ID: r.ID(), Record: r}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize seismic event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(strconv.Itoa(r.Year()))},
			{Key: "exported_at", Value: []byte(exportedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
