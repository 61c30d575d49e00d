package tx

import (
	"io"

	"github.com/sirupsen/logrus"
)

// PoolOptions represent the options for a Pool
type PoolOptions struct {
	Logger logrus.FieldLogger

	// AllowDuplicates admits byte-identical entries into the Pool. By default
	// they are rejected with ErrDuplicate.
	AllowDuplicates bool
}

// DefaultPoolOptions returns the default options for a Pool
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		Logger:          loggerWithFields(logrus.New()),
		AllowDuplicates: false,
	}
}

// WithLogger updates the logger used by the Pool
func (opts PoolOptions) WithLogger(logger logrus.FieldLogger) PoolOptions {
	opts.Logger = logger
	return opts
}

// WithLogLevel updates the log level of the Pool's logger
func (opts PoolOptions) WithLogLevel(level logrus.Level) PoolOptions {
	logger := logrus.New()
	logger.SetLevel(level)
	opts.Logger = loggerWithFields(logger)
	return opts
}

// WithLogOutput updates where the Pool's logger will log data to
func (opts PoolOptions) WithLogOutput(output io.Writer) PoolOptions {
	logger := logrus.New()
	logger.SetOutput(output)
	opts.Logger = loggerWithFields(logger)
	return opts
}

// WithAllowDuplicates updates whether the Pool admits duplicate entries
func (opts PoolOptions) WithAllowDuplicates(allow bool) PoolOptions {
	opts.AllowDuplicates = allow
	return opts
}

func (opts *PoolOptions) setZerosToDefaults() {
	if opts.Logger == nil {
		opts.Logger = loggerWithFields(logrus.StandardLogger())
	}
}

func loggerWithFields(logger *logrus.Logger) logrus.FieldLogger {
	return logger.
		WithField("lib", "powchain").
		WithField("pkg", "tx").
		WithField("com", "pool")
}
