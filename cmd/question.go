package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnassist/internal/study"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Print one question from the configured question source",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		doc, _ := cmd.Flags().GetString("doc")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		factory, err := study.NewFactory(cfg, optionalProvider(ctx, st.EventRepo()))
		if err != nil {
			return err
		}
		kit := factory.NewKit()

		if doc != "" {
			f, err := os.Open(doc)
			if err != nil {
				return fmt.Errorf("open document: %w", err)
			}
			d, err := study.ReadDocument(f, filepath.Base(doc), "")
			f.Close()
			if err != nil {
				return err
			}
			summary, err := factory.Summarizer().Summarize(ctx, d)
			if err != nil {
				return fmt.Errorf("summarize: %w", err)
			}
			kit.SetDocument(d.Name, summary)
		}

		q, err := kit.Questions.Question(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), q)
		return nil
	},
}

func init() {
	questionCmd.Flags().String("doc", "", "Ask about this document (LLM question source only)")
}
