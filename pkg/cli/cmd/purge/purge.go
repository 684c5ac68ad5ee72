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

package purge

import (
	"time"

	"github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var daysFlag int

var example = `
  * Delete completed queue items older than the retention period
  memorymap purge

  * Delete completed queue items older than a day
  memorymap purge --days 1`

// NewCmd returns a new purge command
func NewCmd(ctx context.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "purge",
		Short:   "Delete old completed queue items",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.IntVar(&daysFlag, "days", 0, "retention in days (defaults to the configured retention)")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if daysFlag < 0 {
		return errors.New("--days cannot be negative")
	}

	return nil
}

func newRun(ctx context.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		retention := ctx.Engine.Config().Retention
		if daysFlag > 0 {
			retention = time.Duration(daysFlag) * 24 * time.Hour
		}

		n, err := ctx.Store.PurgeCompletedQueueItems(retention)
		if err != nil {
			return errors.Wrap(err, "purging")
		}

		log.Successf("purged %d completed item(s)\n", n)

		return nil
	}
}
