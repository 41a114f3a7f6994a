package main

import (
	"github.com/spf13/cobra"
)

// NewQueryCmd 创建 query 命令
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search the configured providers and print the merged result set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rs, err := a.engine.Search(cmd.Context(), queryOptions(cmd, args))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rs)
		},
	}
	addQueryFlags(cmd)
	return cmd
}

// NewSuggestCmd 创建 suggest 命令
func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <text>",
		Short: "Print query completions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rs, err := a.engine.Suggest(cmd.Context(), queryOptions(cmd, args))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rs)
		},
	}
	cmd.Flags().String("cc", "", "two letter country code")
	cmd.Flags().String("lang", "", "language code")
	return cmd
}

// NewExclusionsCmd 创建 exclusions 命令
func NewExclusionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exclusions",
		Short: "Print the active URL exclusion patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return writeJSON(cmd.OutOrStdout(), a.engine.Exclusions(cmd.Context()))
		},
	}
}

// NewKeyCmd 创建 key 命令，只计算缓存键，不访问网络
func NewKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key <text>",
		Short: "Print the cache key for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := queryOptions(cmd, args)
			_, err := cmd.OutOrStdout().Write([]byte(opts.CacheKey() + "\n"))
			return err
		},
	}
	addQueryFlags(cmd)
	return cmd
}
