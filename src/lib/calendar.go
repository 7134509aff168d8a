package lib

import (
	"context"
	"log"
	"os"
	"path"

	"sltourism/src/config"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var calsvc *calendar.Service

// GetCalendarService authenticates with the service account key in
// SECRETS_DIR. The calendar must be shared with that account.
func GetCalendarService(ctx context.Context) (*calendar.Service, error) {
	if calsvc != nil {
		return calsvc, nil
	}
	b, err := os.ReadFile(path.Join(config.SECRETS_DIR, "admin-sdk-credentials.json"))
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}
	calsvc = srv
	return srv, nil
}

func GAPIAddEvent(ctx context.Context, calId string, e *calendar.Event) (*calendar.Event, error) {
	s, err := GetCalendarService(ctx)
	if err != nil {
		return nil, err
	}
	created, err := s.Events.Insert(calId, e).Context(ctx).Do()
	if err != nil {
		log.Printf("[calendar] Could not add event to %s: %s\n", calId, err.Error())
		return nil, err
	}
	return created, nil
}
