package app

import (
	"context"

	"github.com/evanschultz/todolist/internal/domain"
)

// Journal records session activity. It holds nothing beyond the life of the process.
type Journal interface {
	AppendChangeEvent(context.Context, domain.ChangeEvent) error
	ListChangeEvents(context.Context, string, int) ([]domain.ChangeEvent, error)
}
