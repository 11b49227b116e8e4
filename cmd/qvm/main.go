// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qteam13-dev/qvm/internal/cli"
	"github.com/qteam13-dev/qvm/pkg/core"
)

func main() {
	var (
		memLen uint32
		dir    string
	)

	exitCode := 1

	root := &cobra.Command{
		Use:   "qvm",
		Short: "a small register-based virtual machine",
		Long: `qvm loads hex-encoded bytecode, places it in a flat linear
memory, and interprets it against a 16-register, trap-driven CPU core.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ec, err := run(memLen, dir)
			exitCode = ec
			return err
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.Flags().Uint32Var(&memLen, "mem", 0, "linear memory size in bytes (0 selects the 128 MiB default)")
	root.Flags().StringVar(&dir, "dir", "", "starting directory for the load-program prompt")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}

	os.Exit(exitCode)
}

// run constructs the VM and its CLI collaborators and drives it to
// completion, returning the process's exit code. Terminal state is always
// restored before returning, since os.Exit in main skips deferred calls.
func run(memLen uint32, dir string) (int, error) {
	exe, _ := os.Executable()
	sink := cli.NewErrSink(fmt.Sprintf("%s: ", filepath.Base(exe)))

	console := cli.NewConsole(os.Stdin, os.Stdout)
	view := cli.NewDebugView(os.Stdout, os.Stdin)

	vm := core.NewVM(memLen, sink, console, view)
	menu := cli.NewMenu(vm.Rand(), vm.Memory.Len(), sink, os.Stdin, os.Stdout)

	if dir != "" {
		menu.SetDirectory(dir)
	}

	cli.EnterRawTerm()
	ec := vm.Run(menu)
	cli.ExitRawTerm()

	return int(ec), nil
}
