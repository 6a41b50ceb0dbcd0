// FILE: builder.go
package sink

// Builder provides a fluent API for building writer configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Writer instance with the specified configuration.
func (b *Builder) Build() (*Writer, error) {
	if b.err != nil {
		return nil, b.err
	}

	// NewWriter handles validation and filesystem setup.
	return NewWriter(b.cfg)
}

// Config returns the accumulated configuration without constructing a writer.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Enabled toggles output. Disabled writers accept and discard.
func (b *Builder) Enabled(enabled bool) *Builder {
	b.cfg.Enabled = enabled
	return b
}

// FilePath sets the active log file path.
func (b *Builder) FilePath(path string) *Builder {
	b.cfg.FilePath = path
	return b
}

// Rotate enables or disables size-based rotation.
func (b *Builder) Rotate(rotate bool) *Builder {
	b.cfg.Rotate = rotate
	return b
}

// MaxLogSize sets the rotation threshold in bytes.
func (b *Builder) MaxLogSize(bytes int64) *Builder {
	b.cfg.MaxLogSize = bytes
	return b
}

// MaxLogFiles sets the number of retained rotated files.
func (b *Builder) MaxLogFiles(n int64) *Builder {
	b.cfg.MaxLogFiles = n
	return b
}

// Strategy sets the full-retention behavior, StrategyDeleteOld or StrategyArchiveOld.
func (b *Builder) Strategy(strategy string) *Builder {
	if b.err != nil {
		return b
	}
	if strategy != StrategyDeleteOld && strategy != StrategyArchiveOld {
		b.err = fmtErrorf("invalid rotation strategy: '%s'", strategy)
		return b
	}
	b.cfg.OnMaxLogFilesReached = strategy
	return b
}

// QueueSize sets the bounded queue capacity.
func (b *Builder) QueueSize(n int64) *Builder {
	b.cfg.QueueSize = n
	return b
}

// Retry sets the filesystem retry count and fixed delay in milliseconds.
func (b *Builder) Retry(count, delayMs int64) *Builder {
	b.cfg.RetryCount = count
	b.cfg.RetryDelayMs = delayMs
	return b
}

// Breaker sets the circuit breaker failure threshold and cooldown in milliseconds.
func (b *Builder) Breaker(threshold, cooldownMs int64) *Builder {
	b.cfg.BreakerThreshold = threshold
	b.cfg.BreakerCooldownMs = cooldownMs
	return b
}

// InternalErrorsToStderr toggles internal diagnostics on stderr.
func (b *Builder) InternalErrorsToStderr(enabled bool) *Builder {
	b.cfg.InternalErrorsToStderr = enabled
	return b
}
