package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Load reads the config file at path ("" resolves via env/default).
// Missing files are not an error when optional is set, since every S3
// parameter can also arrive as a flag.
func Load(path string, optional bool) (*viper.Viper, error) {
	path = ResolveConfigPath(path)
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			if optional {
				return v, nil
			}
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if optional {
				return v, nil
			}
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return v, nil
}
