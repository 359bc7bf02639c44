package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/redline/internal/core/edit"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("window_size", c.WindowSize, windowSizePositive),
		c.validateDocuments(),
		c.validateIntents(),
	)
}

func windowSizePositive(size int) error {
	if size < 1 {
		return fmt.Errorf("must be at least 1, got %d", size)
	}
	return nil
}

// validateDocuments checks document include patterns are valid globs.
func (c *Config) validateDocuments() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Documents {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("documents[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}

// validateIntents checks every allowed type names a real edit type.
func (c *Config) validateIntents() error {
	var errs criterio.FieldErrorsBuilder
	for tag, ic := range c.Intents {
		for _, t := range ic.AllowedTypes {
			if !edit.Type(t).Valid() {
				errs = errs.Append(
					fmt.Sprintf("intents[%q].allowed_types", tag),
					fmt.Errorf("unknown edit type %q", t),
				)
			}
		}
	}
	return errs.ToError()
}
