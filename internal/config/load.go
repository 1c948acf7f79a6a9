package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config file at the given path and returns the parsed
// configuration merged over the defaults, so partial files only override
// what they mention. A missing file is not an error: the defaults describe
// a complete working environment on their own.
func Load(path string) Config {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg
		}
		panic("Failed to read config file " + path + ": " + err.Error())
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic("Failed to unmarshal config file " + path + ": " + err.Error())
	}
	return cfg
}
