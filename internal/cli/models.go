package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stylerd/internal/registry"
	"stylerd/pkg/types"
)

func runModelsCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	models, err := registry.Plan(cfg.ModelsDir, cfg.WeightsExt)
	if err != nil {
		return err
	}
	v, _ := cfg.Variant()
	for i := range models {
		models[i].Default = models[i].ID == v.String()
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(types.ModelsResponse{Models: models})
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBYTES\tDEFAULT\tPATH")
	for _, m := range models {
		def := ""
		if m.Default {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", m.ID, m.Name, m.SizeBytes, def, m.Path)
	}
	return tw.Flush()
}
