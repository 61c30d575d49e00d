package ledger

import (
	"github.com/renproject/powchain/pow"
	"github.com/renproject/powchain/tx"
	"github.com/sirupsen/logrus"
)

// Options represent the options for a Ledger
type Options struct {
	Logger     logrus.FieldLogger
	SealerOpts pow.Options
	TxPoolOpts tx.PoolOptions

	// SkipInitialMining stops New from mining a Block straight after the
	// genesis Block is appended.
	SkipInitialMining bool
}

// DefaultOptions returns the default options for a Ledger
func DefaultOptions() Options {
	return Options{
		Logger:     loggerWithFields(logrus.New()),
		SealerOpts: pow.DefaultOptions(),
		TxPoolOpts: tx.DefaultPoolOptions(),
	}
}

// WithLogger updates the logger used by the Ledger, its Sealer, and its Pool
func (opts Options) WithLogger(logger logrus.FieldLogger) Options {
	opts.Logger = logger
	opts.SealerOpts = opts.SealerOpts.WithLogger(logger)
	opts.TxPoolOpts = opts.TxPoolOpts.WithLogger(logger)
	return opts
}

// WithLogLevel updates the log level of the Ledger's loggers
func (opts Options) WithLogLevel(level logrus.Level) Options {
	logger := logrus.New()
	logger.SetLevel(level)
	opts.Logger = loggerWithFields(logger)
	opts.SealerOpts = opts.SealerOpts.WithLogLevel(level)
	opts.TxPoolOpts = opts.TxPoolOpts.WithLogLevel(level)
	return opts
}

// WithSealerOptions updates the options of the Ledger's Sealer
func (opts Options) WithSealerOptions(sealerOpts pow.Options) Options {
	opts.SealerOpts = sealerOpts
	return opts
}

// WithTxPoolOptions updates the options of the Ledger's Pool
func (opts Options) WithTxPoolOptions(txPoolOpts tx.PoolOptions) Options {
	opts.TxPoolOpts = txPoolOpts
	return opts
}

// WithSkipInitialMining updates whether New mines a Block after genesis
func (opts Options) WithSkipInitialMining(skip bool) Options {
	opts.SkipInitialMining = skip
	return opts
}

// WithDifficulty updates the difficulty target used to seal Blocks
func (opts Options) WithDifficulty(difficulty int) Options {
	opts.SealerOpts = opts.SealerOpts.WithDifficulty(difficulty)
	return opts
}

func (opts *Options) setZerosToDefaults() {
	if opts.Logger == nil {
		opts.Logger = loggerWithFields(logrus.StandardLogger())
	}
}

func loggerWithFields(logger *logrus.Logger) logrus.FieldLogger {
	return logger.
		WithField("lib", "powchain").
		WithField("pkg", "ledger").
		WithField("com", "ledger")
}
