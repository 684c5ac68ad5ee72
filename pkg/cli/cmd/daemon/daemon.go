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

package daemon

import (
	"context"
	"io"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"

	clictx "github.com/memorymap/memorymap/pkg/cli/context"
	"github.com/memorymap/memorymap/pkg/cli/consts"
	"github.com/memorymap/memorymap/pkg/cli/infra"
	"github.com/memorymap/memorymap/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logFileFlag string
var stdoutFlag bool

var example = `
  * Sync in the background, logging to the data directory
  memorymap daemon

  * Log to the terminal instead
  memorymap daemon --stdout`

// NewCmd returns a new daemon command
func NewCmd(ctx clictx.MemoryCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Sync on a schedule and whenever the remote store becomes reachable",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&logFileFlag, "logFile", ctx.Paths.DataFile(consts.AppDirName, consts.DaemonLogFilename), "the path to the rotated log file")
	f.BoolVar(&stdoutFlag, "stdout", false, "log to the terminal instead of the log file")

	return cmd
}

func newLogWriter(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// daemon runs scheduled sync and purge jobs, and a drain pass on every
// transition to online
type daemon struct {
	mctx clictx.MemoryCtx
	cron *cron.Cron
	wg   gosync.WaitGroup
}

func newDaemon(mctx clictx.MemoryCtx) *daemon {
	return &daemon{
		mctx: mctx,
		cron: cron.New(),
	}
}

func (d *daemon) syncJob(ctx context.Context) func() {
	return func() {
		log.Debug("scheduled sync\n")

		if err := d.mctx.Engine.StartSync(ctx); err != nil {
			log.Errorf("scheduled sync failed: %s\n", err.Error())
			return
		}
		if s := d.mctx.Engine.Status(); s.LastSyncError != nil {
			log.Warnf("%s\n", *s.LastSyncError)
		}
	}
}

func (d *daemon) purgeJob() {
	n, err := d.mctx.Store.PurgeCompletedQueueItems(d.mctx.Engine.Config().Retention)
	if err != nil {
		log.Errorf("scheduled purge failed: %s\n", err.Error())
		return
	}

	log.Infof("purged %d completed item(s)\n", n)
}

// start schedules the jobs and watches transitions until ctx is done.
// transitions may be nil.
func (d *daemon) start(ctx context.Context, transitions <-chan bool) error {
	if err := d.cron.AddFunc(d.mctx.SyncSchedule, d.syncJob(ctx)); err != nil {
		return errors.Wrapf(err, "scheduling sync with %q", d.mctx.SyncSchedule)
	}
	if err := d.cron.AddFunc(d.mctx.PurgeSchedule, d.purgeJob); err != nil {
		return errors.Wrapf(err, "scheduling purge with %q", d.mctx.PurgeSchedule)
	}

	d.cron.Start()

	if transitions != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.mctx.Engine.Watch(ctx, transitions)
		}()
	}

	return nil
}

// stop stops the scheduler and waits for the watcher to return. The context
// given to start must be done.
func (d *daemon) stop() {
	d.cron.Stop()
	d.wg.Wait()
}

func newRun(mctx clictx.MemoryCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if !stdoutFlag {
			w := newLogWriter(logFileFlag)
			defer w.Close()

			log.SetOutput(w)
		}

		var transitions <-chan bool
		if mctx.Prober != nil {
			transitions = mctx.Prober.Run(ctx)
		}

		d := newDaemon(mctx)
		if err := d.start(ctx, transitions); err != nil {
			return err
		}

		log.Infof("daemon started: sync %s, purge %s\n", mctx.SyncSchedule, mctx.PurgeSchedule)

		<-ctx.Done()
		d.stop()

		log.Infof("daemon stopped\n")

		return nil
	}
}
