package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stylerd/internal/stylize"
)

func runStylizeCmd(cmd *cobra.Command, args []string) error {
	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	in := args[0]
	raw, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	model, _ := cmd.Flags().GetString("model")

	reg, closeModels, err := openRegistry(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeModels()

	svc := newService(cfg, reg, log)
	res, err := svc.Stylize(cmd.Context(), stylize.Request{Image: raw, Model: model})
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = defaultOutputPath(in, res.Model.String())
	}
	if out == "-" {
		_, err = io.Copy(cmd.OutOrStdout(), res.Body)
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, res.Body); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("model", res.Model.String()).Int("width", res.Width).Int("height", res.Height).Str("out", out).Msg("stylized")
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// defaultOutputPath turns photo.png into photo_candy.jpg next to the input.
func defaultOutputPath(in, model string) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + "_" + model + ".jpg"
}
