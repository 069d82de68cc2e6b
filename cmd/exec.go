package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"enarx-go/errkit"
	"enarx-go/hostexec"
	"enarx-go/keep"
	"enarx-go/sallyport"
	"enarx-go/telemetry"
)

var (
	execSockPath string
)

var execCmd = &cobra.Command{
	Use:   "exec [--sock path] <code>",
	Short: "Build a Keep, load code into it, and run it to completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runExec,
}

func init() {
	execCmd.Flags().StringVar(&execSockPath, "sock", "", "path to the control-daemon Unix socket (out of core scope; accepted but not used)")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	codePath := args[0]
	logger := telemetry.Default()

	backend, err := lookupBackend(selectedBackendName())
	if err != nil {
		return fmt.Errorf("select backend: %w", err)
	}
	logger = telemetry.WithBackend(logger, backend.Name())

	k, err := backend.Build(keep.BuildConfig{
		CodePath:        codePath,
		NrSyscallBlocks: 1,
		PageSize:        sallyport.PageSize,
	})
	if err != nil {
		return fmt.Errorf("build keep: %w", err)
	}

	thread, err := k.Spawn()
	if err != nil {
		return fmt.Errorf("spawn thread: %w", err)
	}

	var oldState *term.State
	if term.IsTerminal(int(os.Stdin.Fd())) {
		oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
		if err == nil {
			defer term.Restore(int(os.Stdin.Fd()), oldState)
		}
	}

	logger.Debug("entering keep", "code", codePath)

	executor := hostexec.NewExecutor()
	return runLoop(thread, executor)
}

// runLoop drives a Thread until it exits or the backend reports an
// unrecoverable error, proxying every Command.SysCall through executor,
// mirroring the host-side loop spec.md §4.5 describes: enter, inspect
// the Command, answer a syscall if one was requested, re-enter. A
// Keep has no soft-cancellation path (spec.md §5): the loop only ever
// returns an error — from Enter, which is how ud2/GHCB-terminate and a
// clean exit/exit_group both surface here, from the executor, or for a
// Command type it does not know.
func runLoop(thread keep.Thread, executor *hostexec.Executor) error {
	for {
		command, err := thread.Enter()
		if err != nil {
			return errkit.Wrap(err, errkit.KindTEE, "cmd.exec.loop")
		}

		switch c := command.(type) {
		case keep.SysCall:
			if err := executor.Proxy(c.Block); err != nil {
				return err
			}
		case keep.Continue:
			// nothing to do; re-enter immediately.
		default:
			return errkit.New(errkit.KindInternal, "cmd.exec.loop", "unknown Command type")
		}
	}
}
