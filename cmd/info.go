package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report which Keep backends this host can run and their capabilities",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tAVAILABLE\tDATUM\tVALUE")

	for _, b := range registry() {
		have := b.Have()
		data := b.Data()
		if len(data) == 0 {
			fmt.Fprintf(w, "%s\t%t\t-\t-\n", b.Name(), have)
			continue
		}
		for i, d := range data {
			name := b.Name()
			avail := fmt.Sprintf("%t", have)
			if i > 0 {
				name, avail = "", ""
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, avail, d.Name, d.Value)
		}
	}

	return w.Flush()
}
