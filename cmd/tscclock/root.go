package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/tscclock"
)

const envPrefix = "TSCCLOCK_"

type rootOptions struct {
	logLevel        string
	forceCoarse     bool
	clocksourcePath string
}

// clock returns the process-wide clock unless the flags ask for a different
// platform decision, in which case a new clock is calibrated.
func (o *rootOptions) clock() (*tscclock.Clock, error) {
	if !o.forceCoarse && o.clocksourcePath == "" {
		return tscclock.Default(), nil
	}

	return tscclock.NewClock(tscclock.Options{
		ForceCoarse:     o.forceCoarse,
		ClocksourcePath: o.clocksourcePath,
	})
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "tscclock",
		Short:        "Inspect the calibrated cycle-counter clock",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
			}

			log.SetLevel(level)

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.logLevel, "log-level", "l", "info", "sets the log level (trace shows every calibration round)")
	flags.BoolVar(&opts.forceCoarse, "force-coarse", false, "use the coarse clock instead of the hardware counter")
	flags.StringVar(&opts.clocksourcePath, "clocksource-path", "", "sysfs file naming the kernel clocksource")

	cmd.AddCommand(newCalibrateCmd(opts))
	cmd.AddCommand(newCompareCmd(opts))
	cmd.AddCommand(newBenchCmd(opts))

	setFlagsFromEnvVars(cmd)

	return cmd
}

// setFlagsFromEnvVars reads and updates persistent flag values from
// environment variables with prefix TSCCLOCK_.
func setFlagsFromEnvVars(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.VisitAll(func(f *pflag.Flag) {
		envVar := flagNameToEnvVar(f.Name, envPrefix)

		if value, present := os.LookupEnv(envVar); present {
			if err := flags.Set(f.Name, value); err != nil {
				log.Infof("unable to configure flag %s using variable %s, err: %v", f.Name, envVar, err)
			}
		}
	})
}

// flagNameToEnvVar converts flag name to environment var name adding a prefix,
// replacing dashes and making all uppercase (e.g. force-coarse becomes
// TSCCLOCK_FORCE_COARSE).
func flagNameToEnvVar(cmdFlag string, prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(cmdFlag, "-", "_"))
}
