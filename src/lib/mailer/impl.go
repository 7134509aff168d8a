package mailer

import (
	"context"
	"fmt"
	"log"

	"sltourism/src/config"
	"sltourism/src/lib"
	"sltourism/src/lib/aws"
)

// Send delivers a message through the provider named by MAIL_PROVIDER.
// With no provider configured the message is only logged.
func Send(ctx context.Context, input *lib.SendMailInput) error {
	if input.From == "" {
		input.From = config.SMTP_FROM
	}
	switch config.MAIL_PROVIDER {
	case "smtp":
		return lib.SendMail(ctx, input)
	case "ses":
		return aws.SESSendMail(ctx, input)
	case "":
		log.Printf("[mailer] No MAIL_PROVIDER, dropping mail to %v: %s\n", input.To, input.Subject)
		return nil
	}
	return fmt.Errorf("unknown MAIL_PROVIDER %q", config.MAIL_PROVIDER)
}
