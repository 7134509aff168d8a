package lib

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

func GetSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	c, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
	)
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

// NewMailMsg builds the go-mail message for input. Invalid optional
// addresses are logged and skipped.
func NewMailMsg(input *SendMailInput) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(input.FromName, input.From); err != nil {
		return nil, err
	}
	if err := msg.To(input.To...); err != nil {
		return nil, err
	}
	if input.ReplyTo != "" {
		if err := msg.ReplyTo(input.ReplyTo); err != nil {
			log.Printf("Failed to set ReplyTo address: %s\n", err.Error())
		}
	}
	if len(input.Cc) > 0 {
		if err := msg.Cc(input.Cc...); err != nil {
			log.Printf("Failed to set Cc address: %s\n", err.Error())
		}
	}
	if len(input.Bcc) > 0 {
		if err := msg.Bcc(input.Bcc...); err != nil {
			log.Printf("Failed to set Bcc address: %s\n", err.Error())
		}
	}
	msg.Subject(input.Subject)
	if input.Html {
		msg.SetBodyString(mail.TypeTextHTML, input.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, input.Body)
	}
	return msg, nil
}

func SendMail(ctx context.Context, input *SendMailInput) error {
	c, err := GetSMTPClient()
	if err != nil {
		return err
	}
	msg, err := NewMailMsg(input)
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	Cc       []string
	Bcc      []string
	ReplyTo  string
	Subject  string
	Body     string
	Html     bool
}
