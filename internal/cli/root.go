// Package cli wires configuration, logging, the model registry and the HTTP
// server into the stylerd command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// MainWithArgs runs the command tree and returns a process exit code.
func MainWithArgs(args []string) int {
	return mainWithIO(context.Background(), args, os.Stdout, os.Stderr)
}

func mainWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "stylerd:", err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// NewRootCmd builds the command tree. Running the root without a subcommand serves.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stylerd",
		Short:         "Fast neural style transfer over HTTP",
		Long:          "stylerd loads the mosaic, candy, rain_princess and udnie style networks and serves them at POST /model/predict.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runServeCmd,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	addCommonFlags(root.PersistentFlags())
	addServeFlags(root.Flags())

	serve := &cobra.Command{
		Use:     "serve",
		Short:   "Load every style network and serve the HTTP API",
		Example: "  stylerd serve --models-dir ./assets --addr :5000",
		Args:    cobra.NoArgs,
		RunE:    runServeCmd,
	}
	addServeFlags(serve.Flags())

	models := &cobra.Command{
		Use:   "models",
		Short: "List the weights files each style variant resolves to",
		Args:  cobra.NoArgs,
		RunE:  runModelsCmd,
	}
	models.Flags().Bool("json", false, "Print JSON instead of a table")

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate config and load every network, then exit",
		Args:  cobra.NoArgs,
		RunE:  runCheckCmd,
	}

	stylizeCmd := &cobra.Command{
		Use:     "stylize <input>",
		Short:   "Stylize one image file without starting the server",
		Example: "  stylerd stylize photo.png --model candy --out candy.jpg",
		Args:    cobra.ExactArgs(1),
		RunE:    runStylizeCmd,
	}
	stylizeCmd.Flags().StringP("model", "m", "", "Style to apply (mosaic, candy, rain_princess, udnie)")
	stylizeCmd.Flags().StringP("out", "o", "", "Output JPEG path, - for stdout (default <input>_<model>.jpg)")
	stylizeCmd.Flags().Int("jpeg-quality", 0, "JPEG quality 1-100")
	stylizeCmd.Flags().Int("max-image-dimension", 0, "Shrink inputs whose longest side exceeds this (0 keeps native size)")
	stylizeCmd.Flags().Int("max-image-pixels", 0, "Reject inputs whose header declares more pixels than this")

	root.AddCommand(serve, models, check, stylizeCmd)
	return root
}
