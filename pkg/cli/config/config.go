/* Copyright 2025 Memorymap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config reads and writes the memorymap configuration file
package config

import (
	"os"
	"time"

	"github.com/memorymap/memorymap/pkg/cli/consts"
	"github.com/memorymap/memorymap/pkg/cli/sync"
	"github.com/memorymap/memorymap/pkg/dirs"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds memorymap configuration
type Config struct {
	RemoteEndpoint string `yaml:"remoteEndpoint"`
	BatchSize      int    `yaml:"batchSize"`
	MaxAttempts    int    `yaml:"maxAttempts"`
	RetryDelay     string `yaml:"retryDelay"`
	RemoteTimeout  string `yaml:"remoteTimeout"`
	RetentionDays  int    `yaml:"retentionDays"`
	ProbeInterval  string `yaml:"probeInterval"`
	SyncSchedule   string `yaml:"syncSchedule"`
	PurgeSchedule  string `yaml:"purgeSchedule"`
}

// Default returns the configuration written on first run
func Default(remoteEndpoint string) Config {
	if remoteEndpoint == "" {
		remoteEndpoint = consts.DefaultRemoteEndpoint
	}

	return Config{
		RemoteEndpoint: remoteEndpoint,
		BatchSize:      sync.DefaultBatchSize,
		MaxAttempts:    sync.DefaultMaxAttempts,
		RetryDelay:     sync.DefaultRetryDelay.String(),
		RemoteTimeout:  sync.DefaultRemoteTimeout.String(),
		RetentionDays:  int(sync.DefaultRetention / (24 * time.Hour)),
		ProbeInterval:  sync.DefaultProbeInterval.String(),
		SyncSchedule:   consts.DefaultSyncSchedule,
		PurgeSchedule:  consts.DefaultPurgeSchedule,
	}
}

func parseDuration(name, val string) (time.Duration, error) {
	if val == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", name)
	}

	return d, nil
}

// SyncConfig returns the engine configuration. Unset values fall back to the engine defaults.
func (c Config) SyncConfig() (sync.Config, error) {
	ret := sync.Config{
		BatchSize:   c.BatchSize,
		MaxAttempts: c.MaxAttempts,
		Retention:   time.Duration(c.RetentionDays) * 24 * time.Hour,
	}

	var err error
	if ret.RetryDelay, err = parseDuration("retryDelay", c.RetryDelay); err != nil {
		return ret, err
	}
	if ret.RemoteTimeout, err = parseDuration("remoteTimeout", c.RemoteTimeout); err != nil {
		return ret, err
	}

	return ret, nil
}

// ProbeEvery returns the interval between health checks of the remote store
func (c Config) ProbeEvery() (time.Duration, error) {
	return parseDuration("probeInterval", c.ProbeInterval)
}

// GetPath returns the path to the memorymap config file
func GetPath(paths dirs.Paths) string {
	return paths.ConfigFile(consts.AppDirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(paths dirs.Paths) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(paths))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(paths dirs.Paths, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = os.WriteFile(GetPath(paths), b, 0644)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}
