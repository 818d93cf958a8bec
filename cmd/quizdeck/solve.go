package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizdeck/internal/cli"
)

func newSolveCommand() *cobra.Command {
	var (
		tag   string
		count int
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Review the questions due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := newEngine(cfg)
			if err != nil {
				return err
			}

			session := cli.NewSolveSession(e, tag, count)
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only review questions with this tag")
	cmd.Flags().IntVar(&count, "count", 0, "cap the number of questions (0 for all due)")
	return cmd
}
