// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// defaultServer is used when no server is configured anywhere.
const defaultServer = "http://localhost:5984"

// fileConfig is the on-disk config file shape.
type fileConfig struct {
	Server   string `yaml:"server"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// settings is the fully resolved CLI configuration.
type settings struct {
	Server   string
	Username string
	Password string
}

// configPath returns the config file location: $CHILL_CONFIG if set,
// otherwise ~/.config/chill/config.yaml.
func configPath(getenv func(string) string) (string, error) {
	if p := getenv("CHILL_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locating home directory")
	}
	return filepath.Join(home, ".config", "chill", "config.yaml"), nil
}

// loadFileConfig reads the config file at path. A missing file is not an
// error; it yields an empty config.
func loadFileConfig(path string) (fileConfig, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fileConfig{}, nil
	} else if err != nil {
		return fileConfig{}, errors.Wrap(err, "reading config file")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fileConfig{}, errors.Wrapf(err, "parsing config file %s", path)
	}
	return fc, nil
}

// resolveSettings merges the three configuration sources. Flags win over
// environment variables, which win over the config file.
func resolveSettings(flags settings, getenv func(string) string, file fileConfig) settings {
	s := settings{
		Server:   firstNonEmpty(flags.Server, getenv("CHILL_SERVER"), file.Server, defaultServer),
		Username: firstNonEmpty(flags.Username, getenv("CHILL_USER"), file.Username),
		Password: firstNonEmpty(flags.Password, getenv("CHILL_PASSWORD"), file.Password),
	}
	return s
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
