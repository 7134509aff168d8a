package lib

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

// GetScheduler returns the single scheduler every periodic job runs on.
func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

// StopScheduler shuts the scheduler down and waits for running jobs.
func StopScheduler() error {
	if scheduler == nil {
		return nil
	}
	log.Printf("[scheduler] Stopping, %d job(s) registered\n", len(scheduler.Jobs()))
	err := scheduler.Shutdown()
	scheduler = nil
	return err
}
