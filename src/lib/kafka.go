package lib

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"sltourism/src/config"
	"sltourism/src/types"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const GalleryEventsTopic = "gallery-events"

func GetKafkaProducerConfig(clientId string) *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers": config.KAFKA_BROKER,
		"client.id":         clientId,
		"acks":              "all",
	}
}

var (
	kafkaProducer   *kafka.Producer
	kafkaProducerMu sync.Mutex
)

func getKafkaProducer(clientId string) (*kafka.Producer, error) {
	kafkaProducerMu.Lock()
	defer kafkaProducerMu.Unlock()
	if kafkaProducer != nil {
		return kafkaProducer, nil
	}
	p, err := kafka.NewProducer(GetKafkaProducerConfig(clientId))
	if err != nil {
		log.Printf("[kafka] Error creating producer: %s\n", err.Error())
		return nil, err
	}
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				log.Printf("[kafka] Delivery failed: %s\n", m.TopicPartition.Error.Error())
			}
		}
	}()
	kafkaProducer = p
	return p, nil
}

func KafkaProduceMessage(clientId string, topic string, key string, payload any) error {
	p, err := getKafkaProducer(clientId)
	if err != nil {
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[kafka] Error encoding payload: %s\n", err.Error())
		return err
	}
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("[kafka] Error producing to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

// CloseKafkaProducer flushes pending messages for up to timeoutMs.
func CloseKafkaProducer(timeoutMs int) {
	kafkaProducerMu.Lock()
	defer kafkaProducerMu.Unlock()
	if kafkaProducer == nil {
		return
	}
	if left := kafkaProducer.Flush(timeoutMs); left > 0 {
		log.Printf("[kafka] %d message(s) not delivered on close\n", left)
	}
	kafkaProducer.Close()
	kafkaProducer = nil
}

func KafkaCreateTopics(ctx context.Context, topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": config.KAFKA_BROKER,
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	defer a.Close()
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		})
	}
	result, err := a.CreateTopics(ctx, topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}

// KafkaRemote mirrors bus events onto the gallery-events topic, keyed by event name.
type KafkaRemote struct {
	topic string
}

func NewKafkaRemote() *KafkaRemote {
	return &KafkaRemote{topic: GalleryEventsTopic}
}

func (k *KafkaRemote) Name() string {
	return "kafka"
}

func (k *KafkaRemote) Send(_ context.Context, event Event, payload types.JSONB) error {
	return KafkaProduceMessage("sltourism", k.topic, string(event), types.JSONB{
		"event":   event,
		"payload": payload,
	})
}
