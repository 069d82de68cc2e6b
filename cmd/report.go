package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enarx-go/backend/sgx"
	"enarx-go/sallyport"
)

var reportCmd = &cobra.Command{
	Use:   "report <code>",
	Short: "Print the measurement a Keep running code would produce, without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// runReport computes the same measurement `exec` would freeze into the
// Keep before launch, without needing a live EnclaveLoader/Firmware —
// only the sgx backend exposes a standalone Measure today (see
// backend/sgx/measure.go); the snp backend's measurement is implicit in
// its launch-update sequence (backend/snp/builder.go Finish) and has no
// loader-independent equivalent to report here.
func runReport(cmd *cobra.Command, args []string) error {
	codePath := args[0]

	backendName := selectedBackendName()
	if backendName == "" {
		backendName = "sgx"
	}
	if backendName != "sgx" {
		return fmt.Errorf("report: measurement preview is only implemented for the sgx backend (got %q)", backendName)
	}

	code, err := os.ReadFile(codePath)
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}

	// report takes a single code path; there is no separate shim image
	// to measure here (a real invocation embeds or locates the shim
	// itself), so the code image's own size stands in for the shim
	// span too. The resulting measurement is only meaningful relative
	// to a future exec of the same code path against the same shim.
	layout, err := sgx.CalculateLayout(sallyport.PageSize, defaultHeapPages, defaultStackPages, uintptr(len(code)), uintptr(len(code)))
	if err != nil {
		return fmt.Errorf("calculate layout: %w", err)
	}

	pages := [][]byte{
		make([]byte, layout.Prefix.Length()),
		make([]byte, layout.Heap.Length()),
		make([]byte, layout.Stack.Length()),
		code,
		code,
	}

	measurement, err := sgx.Measure(pages)
	if err != nil {
		return fmt.Errorf("measure: %w", err)
	}

	out, err := measurement.JSON()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

const (
	defaultHeapPages  = 256
	defaultStackPages = 16
)
