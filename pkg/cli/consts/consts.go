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

// Package consts provides definitions of constants
package consts

var (
	// AppDirName is the name of the directory containing memorymap files
	AppDirName = "memorymap"
	// DBFileName is a filename for the memorymap SQLite database
	DBFileName = "memorymap.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "memorymaprc"
	// DaemonLogFilename is the name of the log file written by the daemon
	DaemonLogFilename = "daemon.log"

	// DefaultRemoteEndpoint is the document server used when none is configured
	DefaultRemoteEndpoint = "http://localhost:3005"
	// DefaultSyncSchedule is the cron schedule of the daemon's sync pass
	DefaultSyncSchedule = "@every 5m"
	// DefaultPurgeSchedule is the cron schedule of the daemon's retention purge
	DefaultPurgeSchedule = "@daily"
)
