package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kodelet/kodelet-go/internal/logger"
	"github.com/kodelet/kodelet-go/kodelet"
)

var rootCmd = &cobra.Command{
	Use:   "kodeletctl",
	Short: "Drive the kodelet CLI through its Go SDK",
}

func init() {
	rootCmd.PersistentFlags().String("kodelet-path", "", "explicit path to the kodelet binary")
	rootCmd.PersistentFlags().String("workdir", "", "working directory for kodelet processes")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newConversationCmd())
}

func main() {
	cobra.OnInitialize(func() {
		name, err := rootCmd.PersistentFlags().GetString("log-level")
		if err != nil {
			return
		}
		level, err := logrus.ParseLevel(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "kodeletctl: invalid log level %q\n", name)
			return
		}
		logger.SetLevel(level)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "kodeletctl: %v\n", err)
		os.Exit(1)
	}
}

// clientOptions assembles SDK options from the persistent flags.
func clientOptions(cmd *cobra.Command) ([]kodelet.Option, error) {
	var opts []kodelet.Option

	path, err := cmd.Flags().GetString("kodelet-path")
	if err != nil {
		return nil, err
	}
	if path != "" {
		opts = append(opts, kodelet.WithKodeletPath(path))
	}

	workDir, err := cmd.Flags().GetString("workdir")
	if err != nil {
		return nil, err
	}
	if workDir != "" {
		opts = append(opts, kodelet.WithWorkDir(workDir))
	}

	return opts, nil
}
