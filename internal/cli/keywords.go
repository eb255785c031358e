package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"pdfchat/internal/adapter/ollama"
	"pdfchat/internal/usecase"
)

var (
	keywordsQuestion string
	keywordsJSON     bool
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract retrieval keywords from a question",
	Long: `Ask the language model which domain terms in a question matter for
retrieval. Useful for inspecting why a question does or does not match
indexed content.

Examples:
  pdfchat keywords -q "how do binary neutron star mergers produce gravitational waves?"
  pdfchat keywords -q "quarterly revenue by region" --json`,
	RunE: runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.Flags().StringVarP(&keywordsQuestion, "question", "q", "", "question to analyze (required)")
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "output as JSON")
	keywordsCmd.MarkFlagRequired("question")
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	gen := ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.ConnectTimeout)

	keywords := usecase.NewKeywordExtractor(gen).Extract(cmd.Context(), keywordsQuestion)

	if keywordsJSON {
		output, _ := json.MarshalIndent(keywords, "", "  ")
		fmt.Println(string(output))
		return nil
	}
	for _, k := range keywords {
		fmt.Println(k)
	}
	return nil
}
