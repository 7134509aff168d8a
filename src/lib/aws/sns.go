package aws

import (
	"context"
	"encoding/json"
	"log"

	"sltourism/src/config"
	"sltourism/src/lib"
	"sltourism/src/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSRemote fans bus events out to an SNS topic. The event name travels as
// a message attribute so subscribers can filter on it.
type SNSRemote struct {
	TopicArn string
	inner    *sns.Client
}

func NewSNSRemote(ctx context.Context) (*SNSRemote, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil, err
	}
	return &SNSRemote{TopicArn: config.SNS_TOPIC_ARN, inner: sns.NewFromConfig(cfg)}, nil
}

func (s *SNSRemote) Name() string {
	return "sns"
}

func (s *SNSRemote) Send(ctx context.Context, event lib.Event, payload types.JSONB) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.inner.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.TopicArn),
		Message:  aws.String(string(body)),
		Subject:  aws.String(string(event)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"event": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event)),
			},
		},
	})
	return err
}
