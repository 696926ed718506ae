package command

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/yoppiari/tumor-registry-sub011/api"
)

var logLevel string

// Run executes a function with dependencies supplied by the registry
// service DI graph. The function runs once; the fx app is torn down when it
// returns.
func Run(f interface{}, opts ...fx.Option) error {
	deps := append(opts, api.Dependencies()...)
	deps = append(deps, fx.Invoke(f), fx.NopLogger)

	app := fx.New(deps...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancelStop()
	return app.Stop(stopCtx)
}

var rootCmd = &cobra.Command{
	Use:   "registry",
	Short: "Helper tool to manage the tumor registry follow-up engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overwrite zap's log level
		return os.Setenv("LOG_LEVEL", logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "error", "Log Level")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
