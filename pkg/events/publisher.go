package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shadowbane/home-flood-report/pkg/config"
	"github.com/shadowbane/home-flood-report/pkg/models"
	"go.uber.org/zap"
)

const EventTypeReportCreated = "report.created"

// PublishTimeout bounds one publish so a broker outage cannot stall a submission.
const PublishTimeout = 3 * time.Second

// ReportCreated is published after a report has been written to the store.
type ReportCreated struct {
	ID          string             `json:"id"`
	EventType   string             `json:"event_type"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Report      models.FloodReport `json:"report"`
}

// Publisher announces stored reports to downstream consumers.
type Publisher interface {
	PublishReportCreated(ctx context.Context, report models.FloodReport) error
	Close() error
}

// New returns a Kafka publisher when brokers are configured, a no-op otherwise.
func New(cfg *config.Config) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return NoopPublisher{}
	}
	zap.S().Infof("Publishing report events to Kafka topic %s", cfg.KafkaTopic)
	return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, clockwork.NewRealClock())
}

type NoopPublisher struct{}

func (NoopPublisher) PublishReportCreated(context.Context, models.FloodReport) error { return nil }
func (NoopPublisher) Close() error                                                 { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes ReportCreated events to a Kafka topic.
type KafkaPublisher struct {
	writer  messageWriter
	clock   clockwork.Clock
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string, clock clockwork.Clock) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  2,
		WriteTimeout: PublishTimeout,
	}
	return &KafkaPublisher{writer: w, clock: clock, timeout: PublishTimeout}
}

func (p *KafkaPublisher) PublishReportCreated(ctx context.Context, report models.FloodReport) error {
	event := ReportCreated{
		ID:          uuid.NewString(),
		EventType:   EventTypeReportCreated,
		SubmittedAt: p.clock.Now().UTC(),
		Report:      report,
	}

	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(event ReportCreated) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "submitted_at", Value: []byte(event.SubmittedAt.Format(time.RFC3339))},
		},
	}, nil
}
