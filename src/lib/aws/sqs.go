package aws

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the part of the SQS client the consumer uses.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSConsumer long-polls a queue and hands every message body to its
// handler. Messages are deleted once handled.
type SQSConsumer struct {
	Name    string
	handler func(body string)
	client  SQSAPI
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewSQSConsumer(queue string, client SQSAPI, handler func(body string)) *SQSConsumer {
	return &SQSConsumer{Name: queue, client: client, handler: handler}
}

func GetSQSClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil, err
	}
	return sqs.NewFromConfig(cfg), nil
}

// Listen resolves the queue and starts polling in the background until
// Close is called.
func (s *SQSConsumer) Listen(ctx context.Context) error {
	qurl, err := s.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(s.Name),
	})
	if err != nil {
		log.Printf("Failed to retrieve queue URL for %s: %s\n", s.Name, err.Error())
		return err
	}
	pollCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.poll(pollCtx, qurl.QueueUrl)
	log.Printf("%s: Listening for messages...", s.Name)
	return nil
}

func (s *SQSConsumer) poll(ctx context.Context, qurl *string) {
	defer s.wg.Done()
	for {
		output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            qurl,
			WaitTimeSeconds:     20,
			MaxNumberOfMessages: 10,
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("[SQS] Error receiving messages: %s\n", err.Error())
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		for _, m := range output.Messages {
			if m.Body != nil {
				s.handler(strings.Clone(*m.Body))
			}
			s.deleteMessage(ctx, qurl, m)
		}
	}
}

func (s *SQSConsumer) deleteMessage(ctx context.Context, qurl *string, msg sqstypes.Message) {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      qurl,
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error deleting message from queue: %s\n", err.Error())
	}
}

func (s *SQSConsumer) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}
