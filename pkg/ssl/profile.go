package ssl

import (
	"fmt"

	"github.com/lattesec/securesock/internal/env"
	"github.com/lattesec/securesock/internal/helpers/pathx"
)

// Profile is a wrap configuration as it appears in config files. Mount names
// the storage root the file paths are written under; it is stripped before
// the paths reach the provider, which expects paths relative to its own file
// namespace.
type Profile struct {
	Mount  string `yaml:"mount"`
	Config Config `yaml:"config"`
}

// LoadProfile reads the named profile from the securesock config
// directories (or from dirs when given, for tests and fixed deployments)
// and returns a Config ready for WrapSocket, with any storage-root prefix
// already stripped from its file paths.
func LoadProfile(name string, dirs ...string) (*Config, error) {
	loader := env.NewLoader()
	if len(dirs) > 0 {
		loader = env.NewLoaderWithPaths(dirs...)
	}

	var p Profile
	if err := loader.Load(name, &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}

	cfg := p.Config
	for _, path := range []*string{&cfg.Keyfile, &cfg.Certfile, &cfg.CACerts} {
		if *path == "" {
			continue
		}

		stripped, err := pathx.TrimMountPrefix(*path, p.Mount)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		*path = stripped
	}

	return &cfg, nil
}
