package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
)

// KafkaPublisher produces events synchronously to a single topic, keyed by
// run ID.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type KafkaOption func(*kafkaOptions)

type kafkaOptions struct {
	logger *slog.Logger
	linger time.Duration
	extra  []kgo.Opt
}

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(o *kafkaOptions) { o.logger = logger }
}

// WithLinger batches records for up to d before producing.
func WithLinger(d time.Duration) KafkaOption {
	return func(o *kafkaOptions) { o.linger = d }
}

// WithClientOpts passes raw client options, mainly for tests.
func WithClientOpts(opts ...kgo.Opt) KafkaOption {
	return func(o *kafkaOptions) { o.extra = append(o.extra, opts...) }
}

func NewKafka(brokers []string, topic string, opts ...KafkaOption) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	o := kafkaOptions{linger: 5 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(o.linger),
	}, o.extra...)

	client, err := kgo.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, logger: o.logger}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Ping checks broker connectivity.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Publish(ctx context.Context, run *models.Run) error {
	if run == nil {
		return errors.New("run is required")
	}
	payload, err := NewEvent(run).Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(run.ID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(EventType)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", p.topic, err)
	}
	if p.logger != nil {
		p.logger.DebugContext(ctx, "simulation event published",
			"topic", p.topic,
			"run_id", run.ID,
		)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
