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

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/memorymap/memorymap/pkg/dirs"
	"github.com/memorymap/memorymap/pkg/server/database"
	"github.com/memorymap/memorymap/pkg/server/log"
	"github.com/pkg/errors"
)

const (
	// DefaultDBDir is the default directory name for memorymap server data
	DefaultDBDir = "memorymap"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultPort is the default port the server listens on
	DefaultPort = "3001"
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrDBMissingDSN is an error for a postgres configuration missing the connection string
	ErrDBMissingDSN = errors.New("DSN is empty")
	// ErrDBDriverInvalid is an error for an unsupported database driver
	ErrDBDriverInvalid = errors.New("Invalid DB driver")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid log level")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// LoadEnv loads environment variables from the given dotenv files. Missing
// files are ignored and variables already set in the environment win.
func LoadEnv(filenames ...string) error {
	for _, name := range filenames {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(name); err != nil {
			return errors.Wrapf(err, "loading %s", name)
		}
	}

	return nil
}

func defaultDBPath() string {
	paths, err := dirs.Resolve()
	if err != nil {
		return ""
	}

	return paths.DataFile(DefaultDBDir, DefaultDBFilename)
}

// Config is an application configuration
type Config struct {
	Port     string
	DBDriver string
	DBPath   string
	DSN      string
	LogLevel string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	Port     string
	DBDriver string
	DBPath   string
	DSN      string
	LogLevel string
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		Port:     getOrEnv(p.Port, "PORT", DefaultPort),
		DBDriver: getOrEnv(p.DBDriver, "DB_DRIVER", database.DriverSQLite),
		DBPath:   getOrEnv(p.DBPath, "DBPath", defaultDBPath()),
		DSN:      getOrEnv(p.DSN, "DSN", ""),
		LogLevel: getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// ConnString returns the string the database driver connects with
func (c Config) ConnString() string {
	if c.DBDriver == database.DriverPostgres {
		return c.DSN
	}

	return c.DBPath
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}

	switch c.DBDriver {
	case database.DriverSQLite:
		if c.DBPath == "" {
			return ErrDBMissingPath
		}
	case database.DriverPostgres:
		if c.DSN == "" {
			return ErrDBMissingDSN
		}
	default:
		return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
	}

	switch c.LogLevel {
	case log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError:
	default:
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	return nil
}
