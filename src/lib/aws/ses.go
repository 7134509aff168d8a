package aws

import (
	"context"
	"log"

	"sltourism/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func GetSESClient(ctx context.Context) (*ses.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil, err
	}
	return ses.NewFromConfig(cfg), nil
}

// SESSendMail delivers input through Amazon SES.
func SESSendMail(ctx context.Context, input *lib.SendMailInput) error {
	c, err := GetSESClient(ctx)
	if err != nil {
		return err
	}
	body := &types.Body{}
	content := &types.Content{Data: aws.String(input.Body), Charset: aws.String("UTF-8")}
	if input.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	out, err := c.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(input.From),
		Destination: &types.Destination{
			ToAddresses:  input.To,
			CcAddresses:  input.Cc,
			BccAddresses: input.Bcc,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(input.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	})
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return err
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
	return nil
}
