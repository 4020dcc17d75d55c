package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DiscordToken string

	// Who is allowed to use `!dev` commands.
	DiscordAdminUserID string

	// Base URL of the BAR user search endpoint.
	APIBase string

	// DSN of the SQLite database, created on first run.
	SQLDSN string

	// How many in-flight stats fetches are allowed at once.
	MaxConcurrentFetches int64

	// Listen address of the read-only HTTP API.
	WebAddr string
}

func NewFromUserConfigDir() (*Config, error) {
	c := &Config{}
	if err := c.ReloadFromUserConfigDir(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) setDefaults() {
	if c.APIBase == "" {
		c.APIBase = "https://gex.honu.pw/api/user/search"
	}
	if c.SQLDSN == "" {
		c.SQLDSN = "./skillboard.db?_busy_timeout=5000"
	}
	if c.MaxConcurrentFetches < 1 {
		c.MaxConcurrentFetches = 1
	}
	if c.WebAddr == "" {
		c.WebAddr = "127.0.0.1:3001"
	}
}

func (c *Config) expandFromEnv() {
	vars := []struct {
		src string
		dst *string
	}{
		{"SKILLBOARD_DISCORD_TOKEN", &c.DiscordToken},
		{"SKILLBOARD_DISCORD_ADMIN", &c.DiscordAdminUserID},
		{"SKILLBOARD_API_BASE", &c.APIBase},
		{"SKILLBOARD_DB", &c.SQLDSN},
		{"SKILLBOARD_WEB_ADDR", &c.WebAddr},
	}

	for _, v := range vars {
		if str := os.Getenv(v.src); str != "" {
			*v.dst = str
		}
	}

	if str := os.Getenv("SKILLBOARD_MAX_FETCHES"); str != "" {
		max, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			log.Printf("warning: ignoring bad SKILLBOARD_MAX_FETCHES value: %s", err)
		} else {
			c.MaxConcurrentFetches = max
		}
	}
}

func (c *Config) ReloadFromUserConfigDir() error {
	defer c.setDefaults()
	defer c.expandFromEnv()

	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}
	log.Printf("debug: reading conf from %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		*c = Config{}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(c)
}

func getOrCreateUserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "skillboard")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

func (c *Config) Write() error {
	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}
	log.Printf("debug: writing conf to %s", path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o700)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(c); err != nil {
		if err2 := f.Close(); err2 != nil {
			return fmt.Errorf("unable to close file (%s) after error: %w", err2, err)
		}

		return err
	}

	return f.Close()
}
