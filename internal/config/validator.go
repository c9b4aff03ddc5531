package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// knownMethods are the HTTP methods accepted in a route spec, plus the "*"
// wildcard.
var knownMethods = map[string]struct{}{
	"GET": {}, "HEAD": {}, "POST": {}, "PUT": {}, "PATCH": {},
	"DELETE": {}, "CONNECT": {}, "OPTIONS": {}, "TRACE": {}, "*": {},
}

// Validate checks the configuration for structural errors. Pattern syntax
// is not validated here: the compiler performs that per-route, skipping
// malformed patterns without failing the whole table.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	addError := func(path, message string) {
		errs = append(errs, ValidationError{Path: path, Message: message})
	}

	if cfg == nil {
		return ValidationErrors{{Message: "configuration is nil"}}
	}

	if cfg.Listen == "" {
		addError("listen", "must not be empty")
	}

	seenNames := make(map[string]int, len(cfg.Routes))
	for i, route := range cfg.Routes {
		path := fmt.Sprintf("routes[%d]", i)

		if route.Name != "" {
			if prev, dup := seenNames[route.Name]; dup {
				addError(path+".name", fmt.Sprintf("duplicate route name %q (first defined at routes[%d])", route.Name, prev))
			} else {
				seenNames[route.Name] = i
			}
		}

		if strings.TrimSpace(route.Pattern) == "" {
			addError(path+".pattern", "must not be empty")
		}

		if len(route.Methods) == 0 {
			addError(path+".methods", "must list at least one HTTP method")
		}
		for _, m := range route.Methods {
			normalized := strings.ToUpper(strings.TrimSpace(m))
			if _, ok := knownMethods[normalized]; !ok {
				addError(path+".methods", fmt.Sprintf("unknown HTTP method %q", m))
			}
		}

		if route.Handler == "" {
			addError(path+".handler", "must not be empty")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
