// Package yaml loads run configuration from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/diogo-cruz/aisafety"
	yamlv3 "gopkg.in/yaml.v3"
)

// LoadConfig reads the config file at path over aisafety.DefaultConfig.
// Keys absent from the file keep their defaults. An empty path or a
// missing file yields the defaults. Unknown keys are rejected.
func LoadConfig(path string) (aisafety.Config, error) {
	cfg := aisafety.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, aisafety.Errorf(aisafety.EINVALID, "read config %s: %v", path, err)
	}

	dec := yamlv3.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, aisafety.Errorf(aisafety.EINVALID, "parse config %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
