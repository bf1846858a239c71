package services

import "github.com/google/uuid"

// Notifier pushes tournament events to live subscribers.
type Notifier interface {
	Publish(tournamentID uuid.UUID, eventType string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Publish(uuid.UUID, string, any) {}
