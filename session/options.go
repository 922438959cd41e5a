package session

import "go.uber.org/zap"

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	// Maximum concurrent sessions
	maxSessions int

	logger *zap.Logger
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		maxSessions: 16,
		logger:      zap.NewNop(),
	}
}

// WithMaxSessions sets the maximum number of concurrently open sessions.
// Zero or negative means unlimited.
func WithMaxSessions(n int) RegistryOption {
	return func(c *registryConfig) { c.maxSessions = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(c *registryConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
