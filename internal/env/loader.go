// Package env loads YAML config files from the standard securesock config
// locations and merges them into a caller-supplied struct pointer.
//
// Usage:
//
//	var cfg Cfg
//	l := env.NewLoader()
//	if err := l.Load("profiles", &cfg); err != nil {
//		...
//	}
package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/lattesec/log"

	"github.com/lattesec/securesock/internal/helpers/mirror"
)

var (
	ErrInvalidConfigFilename = errors.New("invalid config filename")
	validConfigExtensions    = []string{".yml", ".yaml"}
)

type Loader struct {
	paths []string
}

func NewLoader() *Loader {
	paths := resolvePaths()

	log.Debug().
		WithMeta("scope", "env").
		Msgf("using config paths: %s", strings.Join(paths, ", ")).Send()

	return &Loader{paths}
}

// NewLoaderWithPaths skips path resolution and reads only the given
// directories, still in increasing priority order.
func NewLoaderWithPaths(paths ...string) *Loader {
	return &Loader{paths}
}

// Load merges every matching config file into `out` (struct pointer).
// Later directories override earlier ones.
func (l *Loader) Load(filename string, out any) error {
	if err := mirror.IsStructPointer(out); err != nil {
		return err
	}

	filename = filepath.Base(filename)
	if filename == "." {
		return ErrInvalidConfigFilename
	}

	for _, dir := range l.paths {
		for _, ext := range validConfigExtensions {
			cfgPath := filepath.Join(dir, filename+ext)

			data, err := os.ReadFile(cfgPath)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}

				log.Error().
					WithMeta("scope", "env").
					WithMeta("path", cfgPath).
					Msgf("failed to read config file: %v", err).Send()

				return err
			}

			tmp := mirror.FreshLike(out)
			if err := yaml.Unmarshal(data, tmp); err != nil {
				log.Warn().
					WithMeta("scope", "env").
					WithMeta("path", cfgPath).
					Msgf("failed to parse: %v", err).Send()

				return fmt.Errorf("failed to parse config from %s: %v", cfgPath, err)
			}

			if err := mergo.Merge(out, tmp, mergo.WithOverride); err != nil {
				log.Warn().
					WithMeta("scope", "env").
					WithMeta("path", cfgPath).
					Msgf("failed to merge config: %v", err).Send()

				return fmt.Errorf("failed to merge config from %s: %v", cfgPath, err)
			}

			log.Debug().
				WithMeta("scope", "env").
				WithMeta("path", cfgPath).
				Msgf("loaded config from %s", cfgPath).Send()
		}
	}

	return nil
}
