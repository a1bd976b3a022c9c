package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var precedentCmd = &cobra.Command{
	Use:   "precedent",
	Short: "Manage the precedent-case corpus",
}

var precedentIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed unindexed precedent cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		indexed, err := env.Precedent.Index(ctx, env.Provider.Embed)
		if err != nil {
			return err
		}

		zap.L().Info("precedent index complete", zap.Int("indexed", indexed))
		fmt.Printf("indexed %d case(s)\n", indexed)
		return nil
	},
}

func init() {
	precedentCmd.AddCommand(precedentIndexCmd)
	rootCmd.AddCommand(precedentCmd)
}
