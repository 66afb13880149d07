package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig is one catalog API the console can talk to.
type ServerConfig struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Token       string `yaml:"token,omitempty"`
}

// Config CLI configuration
type Config struct {
	DefaultServer string                  `yaml:"default_server"`
	Servers       map[string]ServerConfig `yaml:"servers"`
	configPath    string
}

// DefaultConfigPath is ~/.catalog/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".catalog", "config.yaml"), nil
}

// LoadConfig loads the configuration at path, writing a default one first if it is missing.
func LoadConfig(path string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	config := &Config{
		configPath: path,
		Servers:    make(map[string]ServerConfig),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		config.DefaultServer = "local"
		config.Servers["local"] = ServerConfig{
			URL:         "http://localhost:8080",
			Description: "Local catalog API",
		}
		if err := config.Save(); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if config.Servers == nil {
		config.Servers = make(map[string]ServerConfig)
	}
	config.configPath = path
	return config, nil
}

// Save writes the configuration; it holds tokens, so it is private to the user.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// AddServer adds or replaces a server
func (c *Config) AddServer(name, url, description string) error {
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if url == "" {
		return fmt.Errorf("server URL cannot be empty")
	}

	existing := c.Servers[name]
	c.Servers[name] = ServerConfig{
		URL:         url,
		Description: description,
		Token:       existing.Token,
	}

	if c.DefaultServer == "" {
		c.DefaultServer = name
	}
	return c.Save()
}

// SetToken stores the bearer token for a server
func (c *Config) SetToken(name, token string) error {
	server, exists := c.Servers[name]
	if !exists {
		return fmt.Errorf("server '%s' not found", name)
	}
	server.Token = token
	c.Servers[name] = server
	return c.Save()
}

// SetDefault sets the default server
func (c *Config) SetDefault(name string) error {
	if _, exists := c.Servers[name]; !exists {
		return fmt.Errorf("server '%s' not found", name)
	}
	c.DefaultServer = name
	return c.Save()
}

// GetServer gets a server by name; "" means the default one.
func (c *Config) GetServer(name string) (*ServerConfig, error) {
	if name == "" {
		name = c.DefaultServer
	}
	server, exists := c.Servers[name]
	if !exists {
		return nil, fmt.Errorf("server '%s' not found", name)
	}
	return &server, nil
}
