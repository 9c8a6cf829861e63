package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env     string `yaml:"env" env-default:"local"`
	Backend struct {
		BaseURL string `yaml:"base_url" env-default:"http://127.0.0.1:5000"`
		Token   string `yaml:"token" env-default:""`
		Timeout int    `yaml:"timeout_seconds" env-default:"10"`
	} `yaml:"backend"`
	Socket struct {
		URL               string `yaml:"url" env-default:"ws://127.0.0.1:5000/socket"`
		ReconnectAttempts int    `yaml:"reconnect_attempts" env-default:"10"`
		ReconnectDelay    int    `yaml:"reconnect_delay_seconds" env-default:"1"`
	} `yaml:"socket"`
	Chat struct {
		TypingExpiry  int  `yaml:"typing_expiry_seconds" env-default:"5"`
		PanelLimit    int  `yaml:"panel_limit" env-default:"2"`
		CompactLayout bool `yaml:"compact_layout" env-default:"false"`
	} `yaml:"chat"`
	Session struct {
		Path string `yaml:"path" env-default:"session.json"`
	} `yaml:"session"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9200"`
		ApiKey string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

// PanelCapacity resolves the open-panel limit for the configured layout.
// Compact layouts hold a single conversation panel at a time.
func (c *Config) PanelCapacity() int {
	if c.Chat.CompactLayout {
		return 1
	}
	if c.Chat.PanelLimit < 1 {
		return 1
	}
	return c.Chat.PanelLimit
}
