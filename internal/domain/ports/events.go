package ports

import (
	"context"
	"time"
)

// StudentEventType identifica o tipo de mudança ocorrida em um aluno
type StudentEventType string

const (
	StudentCreated StudentEventType = "student.created"
	StudentUpdated StudentEventType = "student.updated"
	StudentDeleted StudentEventType = "student.deleted"
)

// StudentEvent descreve uma mudança no cadastro de alunos
type StudentEvent struct {
	Type       StudentEventType `json:"type"`
	StudentID  string           `json:"studentId"`
	Name       string           `json:"name,omitempty"`
	Email      string           `json:"email,omitempty"`
	CPF        string           `json:"cpf,omitempty"`
	RA         *string          `json:"ra,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// StudentEventPublisher publica eventos de alunos. Não deve bloquear o chamador.
type StudentEventPublisher interface {
	Publish(ctx context.Context, event StudentEvent)
}
