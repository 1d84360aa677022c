// Package common provides the shared wiring command implementations
// start from: configuration, logging, storage, and the source registry.
package common

import (
	"errors"

	"github.com/polibrief/newscrawl/internal/config"
	"github.com/polibrief/newscrawl/internal/logger"
)

var (
	// ErrLoggerRequired is returned when Deps.Logger is nil.
	ErrLoggerRequired = errors.New("logger is required")
	// ErrConfigRequired is returned when Deps.Config is nil.
	ErrConfigRequired = errors.New("config is required")
)

// Deps holds the dependencies every command builds on.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// Validate ensures all required dependencies are present.
func (d Deps) Validate() error {
	if d.Config == nil {
		return ErrConfigRequired
	}
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	return nil
}
