package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so one test's flags do not
// leak into the next Execute.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command against the workspace at root and
// returns what it wrote to stdout.
func runCLI(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOADLINE_LOG_LEVEL", "error")

	resetFlags(RootCmd)
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SilenceErrors = true
	RootCmd.SetArgs(append([]string{"--project", root}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, root string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, root, args...)
	if err != nil {
		t.Fatalf("loadline %v: %v", args, err)
	}
	return out
}
