package config

import (
	"context"
	"fmt"
	"os"

	"github.com/knadh/koanf/providers/file"
)

// Watch reloads the configuration each time the file named by
// SHIPBOARD_CONFIG changes and passes the result, or the load error, to
// onChange. Watching stops when ctx is done. It returns ErrNoConfigFile
// when no file is configured.
func Watch(ctx context.Context, onChange func(*Config, error)) error {
	path := os.Getenv(envConfig)
	if path == "" {
		return ErrNoConfigFile
	}

	fp := file.Provider(path)
	err := fp.Watch(func(_ interface{}, err error) {
		if err != nil {
			onChange(nil, fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err))
			return
		}
		onChange(Load(ctx))
	})
	if err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err)
	}

	go func() {
		<-ctx.Done()
		_ = fp.Unwatch()
	}()
	return nil
}
