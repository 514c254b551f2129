/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command provctl is the Go analogue of apps/list.c: a small cobra CLI
// that registers the bundled providers/base algorithms against a fresh
// library context and lists them per operation kind via DoAll.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dirpx.dev/provctx"
	"dirpx.dev/provctx/apis"
	"dirpx.dev/provctx/config"
	"dirpx.dev/provctx/internal/diag"
	"dirpx.dev/provctx/internal/obslog"
	"dirpx.dev/provctx/providers/base"
)

var operationNames = map[string]apis.OperationID{
	"digest":  apis.OpDigest,
	"cipher":  apis.OpCipher,
	"keymgmt": apis.OpKeyMgmt,
	"keyexch": apis.OpKeyExch,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logFile string

	root := &cobra.Command{
		Use:   "provctl",
		Short: "Inspect algorithms registered with a library context",
	}

	list := &cobra.Command{
		Use:   "list [digest|cipher|keymgmt|keyexch]",
		Short: "List every registered algorithm for one operation kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var log obslog.Logger
			if logFile != "" {
				log = obslog.NewFile(slog.LevelInfo, logFile, 10, 3, 28)
			} else {
				log = obslog.Default()
			}

			op, ok := operationNames[args[0]]
			if !ok {
				return fmt.Errorf("unknown operation %q", args[0])
			}

			ctx := provctx.New(config.DefaultConfig(), map[apis.OperationID]apis.Adapter{
				apis.OpDigest:  base.DigestAdapter,
				apis.OpKeyExch: base.KeyexchAdapter,
				apis.OpKeyMgmt: base.KeymgmtAdapter,
			})
			ctx.RegisterProvider(base.New(0))
			ctx.RegisterProvider(base.NewFipsNoVariant(0))
			defer ctx.Teardown(func(providerName string, err error) {
				obslog.SwallowTeardownError(log, providerName, err)
			})

			count := 0
			err := ctx.DoAll(op, func(impl apis.Implementation) error {
				info := diag.AlgorithmInfo{
					Operation:          op,
					Name:               impl.Name(),
					Provider:           impl.Provider().Name(),
					PropertyDefinition: "",
				}
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				count++
				return nil
			})
			if err != nil {
				return err
			}
			log.Info("listed algorithms", "operation", args[0], "count", count)
			return nil
		},
	}
	list.Flags().StringVar(&logFile, "log-file", "", "write structured logs to this file instead of stderr")

	root.AddCommand(list)
	return root
}
