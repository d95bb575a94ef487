package main

import (
	"encoding/json"
	"net"
	"os"

	"github.com/pkg/errors"

	"github.com/sammko/tcpst2/provision"
)

const (
	defaultConfigFile = "./config.json"
	defaultName       = "tun-st"
	defaultAddress    = "192.168.22.100/24"

	// IFNAMSIZ minus the trailing NUL.
	maxNameLen = 15
)

type Config struct {
	Name     string `yaml:"name" json:"name"`
	Address  string `yaml:"address" json:"address"`
	MTU      int    `yaml:"mtu" json:"mtu"`
	LogLevel string `yaml:"log-level" json:"log-level"`
}

func (c *Config) name() string {
	if c.Name == "" {
		return defaultName
	}
	return c.Name
}

func (c *Config) address() string {
	if c.Address == "" {
		return defaultAddress
	}
	return c.Address
}

func (c *Config) logLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

func (c *Config) settings() provision.Settings {
	return provision.Settings{Name: c.name(), Address: c.address(), MTU: c.MTU}
}

func (c *Config) validate() error {
	if len(c.name()) > maxNameLen {
		return errors.Errorf("device name %q longer than %d characters", c.name(), maxNameLen)
	}
	ip, _, err := net.ParseCIDR(c.address())
	if err != nil {
		return errors.Wrapf(err, "address %q", c.address())
	}
	if ip.To4() == nil {
		return errors.Errorf("address %q is not IPv4", c.address())
	}
	if c.MTU < 0 {
		return errors.Errorf("mtu %d is negative", c.MTU)
	}
	return nil
}

// parseConfig reads the JSON config file. A missing file is only an error
// when the path was given explicitly; otherwise the built-in defaults apply.
func parseConfig(configFile string, mustExist bool) (*Config, error) {
	cfg := &Config{}
	buf, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.Errorf("configuration file %s is empty", configFile)
	}
	if err := json.Unmarshal(buf, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", configFile)
	}
	return cfg, nil
}
