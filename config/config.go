package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/curtisnewbie/rfctime/logging"
	"github.com/curtisnewbie/rfctime/util/strutil"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type AppConfig struct {
	vp   *viper.Viper
	rwmu *sync.RWMutex
}

// Create AppConfig with default props.
func NewAppConfig() *AppConfig {
	a := &AppConfig{
		vp:   viper.New(),
		rwmu: &sync.RWMutex{},
	}
	setDefaultProps(a)
	return a
}

func doWithWriteLock(a *AppConfig, f func()) {
	a.rwmu.Lock()
	defer a.rwmu.Unlock()
	f()
}

func returnWithReadLock[T any](a *AppConfig, f func() T) T {
	a.rwmu.RLock()
	defer a.rwmu.RUnlock()
	return f()
}

// Set value for the prop
func (a *AppConfig) SetProp(prop string, val any) {
	doWithWriteLock(a, func() {
		a.vp.Set(prop, val)
	})
}

// Set default value for the prop
func (a *AppConfig) SetDefProp(prop string, defVal any) {
	doWithWriteLock(a, func() {
		a.vp.SetDefault(prop, defVal)
	})
}

// Check whether the prop exists
func (a *AppConfig) HasProp(prop string) bool {
	return returnWithReadLock(a, func() bool { return a.vp.IsSet(prop) })
}

// Get prop as string
func (a *AppConfig) GetPropStr(prop string) string {
	return returnWithReadLock(a, func() string { return a.vp.GetString(prop) })
}

// Get prop as int
//
// Values that can't be converted are treated as 0.
func (a *AppConfig) GetPropInt(prop string) int {
	return returnWithReadLock(a, func() int { return cast.ToInt(a.vp.Get(prop)) })
}

// Get prop as bool
//
// Values loaded from cli args or environment are strings, e.g., "true", they are converted as well.
func (a *AppConfig) GetPropBool(prop string) bool {
	return returnWithReadLock(a, func() bool { return cast.ToBool(a.vp.Get(prop)) })
}

// Load config from io Reader in yaml format.
//
// It's the caller's responsibility to close the provided reader.
//
// Calling this method overides previously loaded config.
func (a *AppConfig) LoadConfigFromReader(reader io.Reader) error {
	var eo error
	doWithWriteLock(a, func() {
		a.vp.SetConfigType("yml")
		if err := a.vp.MergeConfig(reader); err != nil {
			eo = fmt.Errorf("failed to load config from reader: %v", err)
		}
	})
	return eo
}

// Load config from string in yaml format.
//
// Calling this method overides previously loaded config.
func (a *AppConfig) LoadConfigFromStr(s string) error {
	return a.LoadConfigFromReader(bytes.NewReader(strutil.UnsafeStr2Byt(s)))
}

// Load config from yaml file.
//
// Calling this method overides previously loaded config.
func (a *AppConfig) LoadConfigFromFile(configFile string) error {
	if strutil.IsBlankStr(configFile) {
		return nil
	}

	f, err := os.Open(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("unable to find config file: '%s'", configFile)
		}
		return fmt.Errorf("failed to open config file: '%s', %v", configFile, err)
	}
	defer f.Close()

	if err := a.LoadConfigFromReader(f); err != nil {
		return fmt.Errorf("failed to load config file: '%s', %v", configFile, err)
	}
	logging.Debugf("Loaded config file: '%v'", configFile)
	return nil
}

// Overwrite existing conf using environment and cli args in KEY=VALUE form.
//
// Cli args take precedence over environment.
func (a *AppConfig) OverwriteConf(args []string) {
	a.overwriteConf(ArgKeyVal(os.Environ()))
	a.overwriteConf(ArgKeyVal(args))
}

func (a *AppConfig) overwriteConf(kvs map[string][]string) {
	for k, v := range kvs {
		if len(v) == 1 {
			a.SetProp(k, v[0])
		} else {
			a.SetProp(k, v)
		}
	}
}

// Parse KEY=VALUE pairs, args without '=' are ignored.
//
// Keys are trimmed, values of the same key are collected in order.
func ArgKeyVal(args []string) map[string][]string {
	m := make(map[string][]string)
	for _, s := range args {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m[k] = append(m[k], v)
	}
	return m
}
