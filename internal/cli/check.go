package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runCheckCmd loads every network the way serve does and reports the result.
func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, log, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg, closeModels, err := openRegistry(cmd.Context(), cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("check failed")
		return err
	}
	n, dir := reg.Len(), reg.Dir()
	if err := closeModels(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d models loaded from %s\n", n, dir)
	return nil
}
