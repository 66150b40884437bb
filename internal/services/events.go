package services

import (
	"context"
	"time"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

// Publishers repassa cada evento a todos os publishers (hub WebSocket, métricas)
type Publishers []ports.StudentEventPublisher

func (p Publishers) Publish(ctx context.Context, event ports.StudentEvent) {
	for _, pub := range p {
		if pub != nil {
			pub.Publish(ctx, event)
		}
	}
}

func studentEvent(eventType ports.StudentEventType, student *entities.User, at time.Time) ports.StudentEvent {
	event := ports.StudentEvent{
		Type:       eventType,
		StudentID:  student.ID,
		OccurredAt: at.UTC(),
	}

	// Remoções carregam apenas o id
	if eventType != ports.StudentDeleted {
		event.Name = student.Name
		event.Email = student.Email.String()
		event.CPF = student.CPF.String()
		event.RA = student.RA
	}

	return event
}
