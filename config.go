package peek

import (
	"errors"

	"github.com/joeshaw/envdecode"
)

// Config controls an [Inspector]. It is read once at startup by
// [LoadConfig]; there is no runtime switching.
type Config struct {
	// Production turns every entry point into a no-op. Die still exits.
	Production bool `env:"PEEK_PRODUCTION,default=false"`

	// InvokeMethods enables calling the zero-argument methods named in
	// Invokers and appending their results to object dumps.
	InvokeMethods bool `env:"PEEK_INVOKE_METHODS,default=true"`

	// ReadSource enables reading call-site source lines from disk.
	ReadSource bool `env:"PEEK_READ_SOURCE,default=true"`

	// LogPrefix is the prefix of the default sink.
	LogPrefix string `env:"PEEK_LOG_PREFIX,default=debug"`

	Invokers []string
}

// DefaultConfig returns the development configuration.
func DefaultConfig() Config {
	return Config{
		InvokeMethods: true,
		ReadSource:    true,
		LogPrefix:     "debug",
		Invokers:      []string{"String", "GoString", "Dump"},
	}
}

// LoadConfig overlays PEEK_* environment variables on [DefaultConfig].
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envdecode.Decode(&cfg); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}
	return cfg, nil
}
