package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "LIFEWEEKS_"

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Database Database `koanf:"db"`
	Weeks    Weeks    `koanf:"weeks"`
	Log      Log      `koanf:"log"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	MaxConns int32  `koanf:"maxconns"`
}

// Weeks holds the defaults of the week calculations.
type Weeks struct {
	DefaultLifespan int    `koanf:"defaultlifespan"`
	DefaultTimezone string `koanf:"defaulttimezone"`
	// LenientUTC accepts "utc" in any casing; other zone names stay case-sensitive.
	LenientUTC  bool `koanf:"lenientutc"`
	MaxPageSize int  `koanf:"maxpagesize"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Port: 8181,
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "lifeweeks",
			Pass:     "",
			Name:     "lifeweeks",
			Schema:   "lifeweeks",
			MaxConns: 25,
		},
		Weeks: Weeks{
			DefaultLifespan: 80,
			DefaultTimezone: "UTC",
			LenientUTC:      true,
			MaxPageSize:     520,
		},
		Log: Log{
			Format: "text",
		},
	}
}

// Load reads the defaults, then the config file at path (YAML, or TOML when the
// file ends in .toml), then LIFEWEEKS_* environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config file %s: %v", path, err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}
	return yaml.Parser()
}
