package config

import "time"

// Config is the doctester configuration.
type Config struct {
	Timeout         time.Duration     `koanf:"timeout" yaml:"timeout"`
	FollowRedirects bool              `koanf:"follow_redirects" yaml:"follow_redirects"`
	TestUser        TestUser          `koanf:"test_user" yaml:"test_user"`
	CookieDB        string            `koanf:"cookie_db" yaml:"cookie_db"`
	Log             LogConfig         `koanf:"log" yaml:"log"`
	Placeholders    map[string]string `koanf:"placeholders" yaml:"placeholders,omitempty"`
}

// TestUser holds credentials that override the page's declared login params.
type TestUser struct {
	Username string `koanf:"username" yaml:"username"`
	Password string `koanf:"password" yaml:"password"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `koanf:"level" yaml:"level"`
	File  string `koanf:"file" yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		FollowRedirects: true,
		Log: LogConfig{
			Level: "info",
		},
	}
}
