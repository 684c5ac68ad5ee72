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

// Package dirs resolves the XDG base directories the application stores its files in
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

// The environment variable names for the XDG base directory specification
var (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
	envCacheHome  = "XDG_CACHE_HOME"
)

// Paths holds the resolved base directories
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

func readPath(envName, defaultPath string) string {
	if dir := os.Getenv(envName); dir != "" {
		return dir
	}

	return defaultPath
}

// Resolve reads the XDG environment variables and falls back to the
// conventional locations under the home directory
func Resolve() (Paths, error) {
	usr, err := user.Current()
	if err != nil {
		return Paths{}, errors.Wrap(err, "getting home dir")
	}

	home := usr.HomeDir

	return Paths{
		Home:   home,
		Config: readPath(envConfigHome, filepath.Join(home, ".config")),
		Data:   readPath(envDataHome, filepath.Join(home, ".local/share")),
		Cache:  readPath(envCacheHome, filepath.Join(home, ".cache")),
	}, nil
}

// ConfigFile returns the path of a config file for the given application
func (p Paths) ConfigFile(app, name string) string {
	return filepath.Join(p.Config, app, name)
}

// DataFile returns the path of a data file for the given application
func (p Paths) DataFile(app, name string) string {
	return filepath.Join(p.Data, app, name)
}

// Ensure creates the application directories if they do not exist
func (p Paths) Ensure(app string) error {
	for _, dir := range []string{p.Config, p.Data} {
		path := filepath.Join(dir, app)
		if err := os.MkdirAll(path, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", path)
		}
	}

	return nil
}
