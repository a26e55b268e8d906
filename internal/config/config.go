// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the standard locations.
const FileName = "orthoview.yaml"

type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

var Config Type

var (
	// mu guards Config and loaded. Getters run on request goroutines.
	mu     sync.RWMutex
	loaded bool

	// loadMu serializes lazy loads so only one getter reads the file.
	loadMu sync.Mutex
)

// Load reads the config file. An explicit path wins over ORTHOVIEW_CFG and
// the standard locations.
func Load(cfgFilePath ...string) (Type, error) {
	var path string
	if len(cfgFilePath) == 1 && cfgFilePath[0] != "" {
		path = cfgFilePath[0]
	} else {
		p, err := getConfigPath()
		if err != nil {
			return Type{}, err
		}
		path = p
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	Config = Type{
		Source:    path,
		Namespace: Config.Namespace,
		Data:      data,
	}
	loaded = true

	return Config, nil
}

// SetNamespace sets the key prefix tried before the global key.
func SetNamespace(ns string) {
	mu.Lock()
	defer mu.Unlock()
	Config.Namespace = ns
}

// Reset forgets the loaded config. The next getter loads it again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	Config = Type{}
	loaded = false
}

// get traverses the map using a dotted key path
func (cfg *Type) get(kspec string) (any, error) {
	candidateKeys := []string{kspec}
	if cfg.Namespace != "" {
		candidateKeys = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidateKeys {
		keys := strings.Split(key, ".")
		var current interface{} = cfg.Data

		success := true
		for _, key := range keys {
			m, ok := current.(map[string]interface{})
			if !ok {
				success = false
				break
			}
			current, ok = m[key]
			if !ok {
				success = false
				break
			}
		}

		if success {
			return current, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidateKeys)
}

// ensureLoaded attempts a load at most once, whether or not a file is found
// and whether or not it holds any keys.
func ensureLoaded() {
	mu.RLock()
	done, src := loaded, Config.Source
	mu.RUnlock()
	if done {
		return
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	mu.RLock()
	done = loaded
	mu.RUnlock()
	if done {
		return
	}

	if _, err := Load(src); err != nil {
		log.Debugf("no config loaded: %v", err)
		mu.Lock()
		loaded = true
		mu.Unlock()
	}
}

func lookup(key string) (any, error) {
	ensureLoaded()

	mu.RLock()
	defer mu.RUnlock()
	return Config.get(key)
}

func GetString(key string, defaultValue ...string) (string, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}

	return s, nil
}

func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

func GetBool(key string, defaultValue ...bool) (bool, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, errors.New("value is not a bool")
	}

	return b, nil
}

func getConfigPath() (string, error) {
	if p, ok := os.LookupEnv("ORTHOVIEW_CFG"); ok && p != "" {
		fileInfo, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", p)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("ORTHOVIEW_CFG points to a directory: %s", p)
		}
		return p, nil
	}

	var candidates []string = []string{
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, FileName)
		if fileInfo, err := os.Stat(file); err == nil {
			if !fileInfo.IsDir() {
				log.Debugf("using config file: %s", file)
				return file, nil
			}
		}
	}
	return "", fmt.Errorf("no config file found in standard locations")
}
