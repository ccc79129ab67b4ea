package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"prime-cipher/internal/infra"
	"prime-cipher/internal/usecase"
)

type keyMetadataView struct {
	ID        string  `json:"id"`
	Public    keyView `json:"public"`
	PrimeMin  uint64  `json:"prime_min"`
	PrimeMax  uint64  `json:"prime_max"`
	CreatedAt string  `json:"created_at"`
}

type keyPairView struct {
	ID      string  `json:"id"`
	Public  keyView `json:"public"`
	Private keyView `json:"private"`
}

// keysCmd は保存済み鍵ペアの操作コマンド。
func keysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect stored key pairs (requires DATABASE_URL)",
	}
	cmd.AddCommand(keysListCmd(a))
	cmd.AddCommand(keysGetCmd(a))
	return cmd
}

// keysListCmd は保存済み鍵ペアの一覧コマンド。
func keysListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored key pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withKeyService(ctx, func(svc *usecase.KeyService) error {
				keys, err := svc.ListKeys(ctx)
				if err != nil {
					return fmt.Errorf("listing keys: %w", err)
				}

				if a.output == outputJSON {
					views := make([]keyMetadataView, len(keys))
					for i, k := range keys {
						views[i] = keyMetadataView{
							ID:        k.ID,
							Public:    toKeyView(k.Public),
							PrimeMin:  k.PrimeMin,
							PrimeMax:  k.PrimeMax,
							CreatedAt: k.CreatedAt.UTC().Format(time.RFC3339),
						}
					}
					return writeJSON(cmd.OutOrStdout(), views)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "ID\tPUBLIC\tPRIME RANGE\tCREATED AT")
				for _, k := range keys {
					fmt.Fprintf(w, "%s\t(%d,%d)\t[%d, %d)\t%s\n",
						k.ID, k.Public.Exponent, k.Public.Modulus,
						k.PrimeMin, k.PrimeMax,
						k.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				if err := w.Flush(); err != nil {
					return fmt.Errorf("failed to flush output: %w", err)
				}
				return nil
			})
		},
	}
}

// keysGetCmd は保存済み鍵ペアを開封して表示するコマンド。
func keysGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored key pair with its unsealed private exponent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			return a.withKeyService(ctx, func(svc *usecase.KeyService) error {
				pair, err := svc.GetKeyPair(ctx, id)
				if err != nil {
					infra.WriteAuditLog(ctx, "get_key_pair", id, infra.AuditFailure)
					return fmt.Errorf("getting key pair: %w", err)
				}
				infra.WriteAuditLog(ctx, "get_key_pair", id, infra.AuditSuccess)

				if a.output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), keyPairView{
						ID:      id,
						Public:  toKeyView(pair.Public),
						Private: toKeyView(pair.Private),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatKeyPair(*pair))
				return nil
			})
		},
	}
}
