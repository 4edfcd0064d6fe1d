package provider

import (
	"fmt"
	"log/slog"
	"strings"
)

// Selector resolves which provider a pipeline invocation should use.
// Resolution is re-evaluated on every call; nothing is cached, since
// configuration may change between requests.
type Selector struct {
	providers   []Provider
	defaultName string
	logger      *slog.Logger
}

// NewSelector creates a Selector over providers in registration order.
// defaultName is consulted when no preferred name is given or the preferred
// provider cannot serve.
func NewSelector(defaultName string, logger *slog.Logger, providers ...Provider) *Selector {
	return &Selector{
		providers:   providers,
		defaultName: defaultName,
		logger:      logger,
	}
}

// Providers returns the registered providers in registration order.
func (s *Selector) Providers() []Provider {
	return s.providers
}

// Get resolves a provider: the preferred name first, then the configured
// default, then the first configured provider in registration order.
// Named candidates that exist but are unconfigured are skipped with a log
// line. Get fails only when no registered provider is configured.
func (s *Selector) Get(preferred string) (Provider, error) {
	candidates := make([]string, 0, 2)
	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	if s.defaultName != "" && !strings.EqualFold(s.defaultName, preferred) {
		candidates = append(candidates, s.defaultName)
	}

	for _, name := range candidates {
		p := s.lookup(name)
		if p == nil {
			s.logger.Debug("provider not registered", "name", name)
			continue
		}
		if !p.Configured() {
			s.logger.Warn("provider not configured, trying next candidate", "name", p.Name())
			continue
		}
		return p, nil
	}

	for _, p := range s.providers {
		if p.Configured() {
			return p, nil
		}
	}

	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return nil, fmt.Errorf("no configured AI provider (registered: %s)", strings.Join(names, ", "))
}

func (s *Selector) lookup(name string) Provider {
	for _, p := range s.providers {
		if strings.EqualFold(p.Name(), name) {
			return p
		}
	}
	return nil
}
