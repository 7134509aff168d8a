package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"

	"sltourism/src/config"
	"sltourism/src/types"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var innerApp *firebase.App
var innerMessaging *messaging.Client

func getOpts() option.ClientOption {
	return option.WithCredentialsFile(path.Join(config.SECRETS_DIR, "admin-sdk-credentials.json"))
}

func GetFirebaseMessaging(ctx context.Context) (*messaging.Client, error) {
	if innerMessaging != nil {
		return innerMessaging, nil
	}
	if innerApp == nil {
		app, err := firebase.NewApp(ctx, nil, getOpts())
		if err != nil {
			log.Printf("error initializing app: %s\n", err.Error())
			return nil, err
		}
		innerApp = app
	}

	msg, err := innerApp.Messaging(ctx)
	if err != nil {
		log.Printf("error initializing FCM: %s\n", err.Error())
		return nil, err
	}
	innerMessaging = msg
	return msg, nil
}

// FCMRemote pushes bus events to a topic the mobile apps subscribe to.
type FCMRemote struct {
	Topic string
	inner *messaging.Client
}

func NewFCMRemote(ctx context.Context) (*FCMRemote, error) {
	client, err := GetFirebaseMessaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMRemote{Topic: config.FCM_TOPIC, inner: client}, nil
}

func (f *FCMRemote) Name() string {
	return "fcm"
}

func (f *FCMRemote) Send(ctx context.Context, event Event, payload types.JSONB) error {
	_, err := f.inner.Send(ctx, &messaging.Message{
		Topic: f.Topic,
		Data:  FCMData(event, payload),
	})
	return err
}

// FCMData flattens a payload into the string map FCM data messages carry.
// Non-string values are JSON encoded.
func FCMData(event Event, payload types.JSONB) map[string]string {
	data := map[string]string{"event": string(event)}
	for k, v := range payload {
		if k == "event" {
			continue
		}
		switch val := v.(type) {
		case string:
			data[k] = val
		case nil:
		default:
			raw, err := json.Marshal(val)
			if err != nil {
				data[k] = fmt.Sprint(val)
				continue
			}
			data[k] = string(raw)
		}
	}
	return data
}
