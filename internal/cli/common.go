package cli

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/pxefirst/internal/clock"
	"github.com/danieljhkim/pxefirst/internal/config"
	"github.com/danieljhkim/pxefirst/internal/efiboot"
	"github.com/danieljhkim/pxefirst/internal/engine"
	"github.com/danieljhkim/pxefirst/internal/eventlog"
	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/metrics"
	"github.com/danieljhkim/pxefirst/internal/retry"
	"github.com/danieljhkim/pxefirst/internal/sysexec"
)

// session holds what every command needs: the effective config, the event
// log and a console printer.
type session struct {
	conf   *config.Config
	logger logr.Logger
	closer func() error
	out    *printer
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer()
	}
}

// loadConfig loads the effective config for cmd, binding its flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
		FlagKeys:   config.DefaultFlagKeys,
	})
}

// newSession loads the config and opens the event log.
//
// With warnOnLogFailure set an unwritable event log is reported and records
// go to stderr; otherwise they are dropped silently (read-only commands).
func newSession(cmd *cobra.Command, warnOnLogFailure bool) (*session, error) {
	p := printerFor(cmd)

	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var fallback io.Writer = io.Discard
	if warnOnLogFailure {
		fallback = cmd.ErrOrStderr()
	}
	logger, closer, err := eventlog.Open(eventlog.Options{
		Path:     conf.LogFile,
		Level:    conf.LogLevel,
		Fallback: fallback,
	})
	if err != nil && warnOnLogFailure {
		p.Warning(err.Error() + "; logging to stderr")
	}

	return &session{conf: conf, logger: logger, closer: closer, out: p}, nil
}

// bootManager returns the report file reader when reportFile is set and the
// efibootmgr adapter otherwise.
func bootManager(conf *config.Config, reportFile string) efiboot.BootManager {
	if reportFile != "" {
		return efiboot.NewReportFile(reportFile)
	}
	return efiboot.NewEfibootmgr(sysexec.NewRealRunner(), conf.EfibootmgrPath, conf.VerboseReport)
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(s *session, boot efiboot.BootManager) *engine.Engine {
	conf := s.conf
	opts := engine.Options{
		EFIVarsDir: conf.EFIVarsDir,
		Readiness: retry.Policy{
			Attempts: conf.ReadinessAttempts(),
			Delay:    conf.Readiness.Interval,
		},
		Apply: retry.Policy{
			Attempts: conf.Apply.Attempts,
			Delay:    conf.Apply.Delay,
		},
		MetricsTextfile: conf.Metrics.Textfile,
	}
	return engine.New(boot, fsops.NewRealFS(), clock.RealClock{}, s.logger, metrics.New(), opts)
}
