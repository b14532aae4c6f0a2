package controller

import (
	"github.com/charmbracelet/log"
	"github.com/evanschultz/todolist/internal/domain"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes dispatch and error logging to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNewItemDefaults sets the values the item form opens with in add mode.
func WithNewItemDefaults(form domain.ItemInput) Option {
	return func(c *Controller) {
		c.newItem = form
	}
}

// WithActivityLimit caps how many journal entries the activity log shows.
func WithActivityLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.activityLimit = limit
		}
	}
}
