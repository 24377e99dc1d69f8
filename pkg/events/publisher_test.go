package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shadowbane/home-flood-report/pkg/config"
	"github.com/shadowbane/home-flood-report/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
	block  bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishReportCreated(t *testing.T) {
	now := time.Date(2024, 9, 12, 8, 30, 0, 0, time.UTC)
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, clock: clockwork.NewFakeClockAt(now)}

	report := models.FloodReport{
		Latitude:  "37.7749",
		Longitude: "-122.4194",
		Address:   "123 Main St",
		Type:      "Pipe Burst",
		Severity:  3,
	}
	require.NoError(t, p.PublishReportCreated(context.Background(), report))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	var event ReportCreated
	require.NoError(t, json.Unmarshal(msg.Value, &event))

	assert.Equal(t, string(msg.Key), event.ID)
	assert.Len(t, event.ID, 36)
	assert.Equal(t, EventTypeReportCreated, event.EventType)
	assert.Equal(t, now, event.SubmittedAt)
	assert.Equal(t, "123 Main St", event.Report.Address)
	assert.Equal(t, 3, event.Report.Severity)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(EventTypeReportCreated), msg.Headers[0].Value)
	assert.Equal(t, []byte("2024-09-12T08:30:00Z"), msg.Headers[1].Value)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w, clock: clockwork.NewFakeClock()}

	err := p.PublishReportCreated(context.Background(), models.FloodReport{Address: "x"})
	require.Error(t, err)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNew_NoBrokersIsNoop(t *testing.T) {
	p := New(&config.Config{})
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.PublishReportCreated(context.Background(), models.FloodReport{}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_PublishGivesUpAfterTimeout(t *testing.T) {
	w := &fakeWriter{block: true}
	p := &KafkaPublisher{writer: w, clock: clockwork.NewRealClock(), timeout: 20 * time.Millisecond}

	start := time.Now()
	err := p.PublishReportCreated(context.Background(), models.FloodReport{Address: "123 Main St"})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewKafkaPublisher_BoundsWrites(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "flood-reports", clockwork.NewRealClock())
	defer p.Close()

	w, ok := p.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, PublishTimeout, w.WriteTimeout)
	assert.Equal(t, 2, w.MaxAttempts)
	assert.Equal(t, PublishTimeout, p.timeout)
}
