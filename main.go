// Command enarx loads a position-independent Linux binary into a
// hardware-isolated Keep (Intel SGX or AMD SEV-SNP) and proxies the
// syscalls it issues back to the host.
//
// Commands:
//
//	info           - report which backends this host can run
//	exec <code>    - build a Keep, load code into it, and run it
//	report <code>  - print the measurement exec would produce, without running it
package main

import (
	"fmt"
	"os"

	"enarx-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
