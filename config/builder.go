package config

import (
	"github.com/jpalmerr/chatwire"
)

// BuildClient converts parsed configuration into an SDK client.
//
// The client is backed by file storage under the configured credentials
// directory (defaulting to the SDK's conventional location), so the session
// survives between CLI invocations.
func BuildClient(cfg *Config, extra ...chatwire.Option) (*chatwire.Client, error) {
	dir := cfg.CredentialsDir
	if dir == "" {
		var err error
		dir, err = chatwire.DefaultStorageDir()
		if err != nil {
			return nil, err
		}
	}

	opts := []chatwire.Option{
		chatwire.WithTimeout(cfg.Timeout.Duration()),
		chatwire.WithPollInterval(cfg.PollInterval.Duration()),
		chatwire.WithPollMaxAttempts(cfg.PollMaxAttempts),
		chatwire.WithStorage(chatwire.NewFileStorage(dir)),
	}
	opts = append(opts, extra...)

	return chatwire.New(cfg.BaseURL, opts...)
}
