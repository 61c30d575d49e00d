package pow

import (
	"io"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultDifficulty is the number of leading zero hex characters that a
	// sealed Block's hash must have by default
	DefaultDifficulty = 5

	// DefaultWorkers is the number of goroutines searching for a nonce by
	// default
	DefaultWorkers = 1
)

// Options represent the options for a Sealer
type Options struct {
	Logger     logrus.FieldLogger
	Difficulty int
	Workers    int

	// MaxAttempts bounds the number of nonces that are tried before sealing
	// fails with ErrMiningTimeout. Zero means no bound.
	MaxAttempts int64
}

// DefaultOptions returns the default options for a Sealer
func DefaultOptions() Options {
	return Options{
		Logger:      loggerWithFields(logrus.New()),
		Difficulty:  DefaultDifficulty,
		Workers:     DefaultWorkers,
		MaxAttempts: 0,
	}
}

// WithLogger updates the logger used by the Sealer
func (opts Options) WithLogger(logger logrus.FieldLogger) Options {
	opts.Logger = logger
	return opts
}

// WithLogLevel updates the log level of the Sealer's logger
func (opts Options) WithLogLevel(level logrus.Level) Options {
	logger := logrus.New()
	logger.SetLevel(level)
	opts.Logger = loggerWithFields(logger)
	return opts
}

// WithLogOutput updates where the Sealer's logger will log data to
func (opts Options) WithLogOutput(output io.Writer) Options {
	logger := logrus.New()
	logger.SetOutput(output)
	opts.Logger = loggerWithFields(logger)
	return opts
}

// WithDifficulty updates the difficulty target of the Sealer
func (opts Options) WithDifficulty(difficulty int) Options {
	opts.Difficulty = difficulty
	return opts
}

// WithWorkers updates the number of goroutines used by the Sealer
func (opts Options) WithWorkers(workers int) Options {
	opts.Workers = workers
	return opts
}

// WithMaxAttempts updates the maximum number of nonces tried by the Sealer
func (opts Options) WithMaxAttempts(maxAttempts int64) Options {
	opts.MaxAttempts = maxAttempts
	return opts
}

func (opts *Options) setZerosToDefaults() {
	if opts.Logger == nil {
		opts.Logger = loggerWithFields(logrus.StandardLogger())
	}
	if opts.Difficulty == 0 {
		opts.Difficulty = DefaultDifficulty
	}
	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers
	}
}

func loggerWithFields(logger *logrus.Logger) logrus.FieldLogger {
	return logger.
		WithField("lib", "powchain").
		WithField("pkg", "pow").
		WithField("com", "sealer")
}
