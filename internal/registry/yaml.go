package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadPriorsFromYAML reads a YAML list of priors from the given path.
func LoadPriorsFromYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read priors fixture")
	}

	var priors []Prior
	if err := yaml.Unmarshal(data, &priors); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal priors fixture")
	}
	return New(priors), nil
}
