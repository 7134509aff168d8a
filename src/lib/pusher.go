package lib

import (
	"context"
	"os"

	"sltourism/src/config"
	"sltourism/src/types"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
		Secure:  true,
	}
	return pusherClient
}

// PusherRemote forwards bus events to connected browsers.
type PusherRemote struct {
	client  *pusher.Client
	channel string
}

func NewPusherRemote() *PusherRemote {
	return &PusherRemote{client: GetPusherClient(), channel: config.PUSHER_CHANNEL}
}

func (p *PusherRemote) Name() string {
	return "pusher"
}

func (p *PusherRemote) Send(_ context.Context, event Event, payload types.JSONB) error {
	return p.client.Trigger(p.channel, string(event), payload)
}
