package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL       string
	User            string
	Key             string
	CredentialsFile string
	Output          string
	Verbose         bool
}

// credentials is the on-disk credential format
type credentials struct {
	User string `json:"user"`
	Key  string `json:"key"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:       getEnvOrDefault("PLAYTRACK_SERVER", "http://localhost:8080"),
		User:            os.Getenv("PLAYTRACK_USER"),
		Key:             os.Getenv("PLAYTRACK_KEY"),
		CredentialsFile: getEnvOrDefault("PLAYTRACK_CREDENTIALS_FILE", defaultCredentialsFile()),
		Output:          "text",
		Verbose:         false,
	}
}

// LoadCredentials loads saved credentials from file if not already set
func (c *Config) LoadCredentials() error {
	if c.User != "" && c.Key != "" {
		return nil
	}

	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No credentials file is fine
		}
		return err
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return err
	}

	if c.User == "" {
		c.User = creds.User
	}
	if c.Key == "" {
		c.Key = creds.Key
	}
	return nil
}

// SaveCredentials saves the user/key pair to the credentials file
func (c *Config) SaveCredentials(user, key string) error {
	c.User = user
	c.Key = key

	dir := filepath.Dir(c.CredentialsFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(credentials{User: user, Key: key})
	if err != nil {
		return err
	}

	return os.WriteFile(c.CredentialsFile, data, 0600)
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".playtrack/credentials"
	}
	return filepath.Join(home, ".playtrack", "credentials")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
