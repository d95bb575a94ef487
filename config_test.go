package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(filepath.Join(t.TempDir(), "absent.json"), false)
	require.NoError(t, err)

	assert.Equal(t, "tun-st", cfg.name())
	assert.Equal(t, "192.168.22.100/24", cfg.address())
	assert.Equal(t, "info", cfg.logLevel())
	assert.NoError(t, cfg.validate())

	s := cfg.settings()
	assert.Equal(t, "tun-st", s.Name)
	assert.Equal(t, "192.168.22.100/24", s.Address)
	assert.Zero(t, s.MTU)
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "tun-exp",
		"address": "10.9.8.7/16",
		"mtu": 1280,
		"log-level": "debug"
	}`), 0o644))

	cfg, err := parseConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "tun-exp", cfg.name())
	assert.Equal(t, "10.9.8.7/16", cfg.address())
	assert.Equal(t, 1280, cfg.MTU)
	assert.Equal(t, "debug", cfg.logLevel())
	assert.NoError(t, cfg.validate())
}

func TestConfigExplicitFileMustExist(t *testing.T) {
	_, err := parseConfig(filepath.Join(t.TempDir(), "absent.json"), true)
	assert.Error(t, err)
}

func TestConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := parseConfig(path, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := parseConfig(path, false)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	err := (&Config{Address: "not-an-address"}).validate()
	assert.Error(t, err)

	err = (&Config{Address: "fd00::1/64"}).validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not IPv4")

	err = (&Config{Name: strings.Repeat("x", 16)}).validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "longer")

	err = (&Config{MTU: -1}).validate()
	assert.Error(t, err)

	assert.NoError(t, (&Config{Name: "tun0", Address: "192.168.22.100/24", MTU: 1500}).validate())
}
