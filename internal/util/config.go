package util

import "github.com/BurntSushi/toml"

type Configuration struct {
	Version  string
	WorkDir  string `toml:"work_dir"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	Trace    bool   `toml:"trace"`
}

// LoadConfiguration reads a TOML config file over the given defaults.
func LoadConfiguration(path string, defaults Configuration) (Configuration, error) {
	c := defaults
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return defaults, err
	}
	return c, nil
}
