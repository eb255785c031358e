package cli

import (
	"os"

	"github.com/spf13/cobra"
	"pdfchat/internal/usecase"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask [files or globs...]",
	Short: "Index PDFs and answer a single question",
	Long: `Index the given PDF files and answer one question about them,
streaming the answer with source citations.

Examples:
  pdfchat ask paper.pdf -q "what are the key findings?"
  pdfchat ask docs/ -q "summarize"
  pdfchat ask "reports/**/*.pdf" -q "which quarter had the highest revenue?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(GetConfig(), GetWorkDir())
	if err != nil {
		return err
	}
	defer p.Close()

	sess := usecase.NewSession()
	if _, err := collectAndSync(p, sess, args); err != nil {
		return err
	}

	renderStream(os.Stdout, p.answer.Answer(cmd.Context(), sess, askQuestion))
	return nil
}
