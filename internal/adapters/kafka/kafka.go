package kafka

import (
	"encoding/json"
	"strconv"
	"time"

	"goals-service/internal/realtime"

	"github.com/IBM/sarama"
)

// NewSyncProducer builds a sarama producer for the activity event stream.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "goals-service"

	return sarama.NewSyncProducer(brokers, config)
}

// EventSink copies published domain events onto a Kafka topic for
// downstream consumers (analytics, feed materialization). Emission is
// best-effort: the live fan-out has already happened when Emit runs, and a
// produce failure is the caller's to log and drop.
type EventSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventSink(producer sarama.SyncProducer, topic string) *EventSink {
	return &EventSink{producer: producer, topic: topic}
}

type activityRecord struct {
	Kind      string      `json:"kind"`
	ActorID   uint        `json:"actorId"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Emit publishes one event, keyed by actor so a consumer sees one user's
// events in order.
func (s *EventSink) Emit(event realtime.Event) error {
	value, err := json.Marshal(activityRecord{
		Kind:      string(event.Kind),
		ActorID:   event.ActorID,
		Payload:   event.Payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.ActorID), 10)),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (s *EventSink) Close() error {
	return s.producer.Close()
}
