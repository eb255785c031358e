package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"pdfchat/internal/adapter/fs"
	"pdfchat/internal/usecase"
)

var chatCmd = &cobra.Command{
	Use:   "chat [files or globs...]",
	Short: "Interactive question answering over PDFs",
	Long: `Start an interactive session. Documents can be added and removed
mid-conversation; the index follows the uploaded set.

Commands inside the session:
  /add <files or globs>   index more documents
  /remove <filename>      drop a document from the index
  /files                  list indexed documents
  /quit                   leave the session

Anything else is treated as a question.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(GetConfig(), GetWorkDir())
	if err != nil {
		return err
	}
	defer p.Close()

	sess := usecase.NewSession()

	var uploads []string
	if len(args) > 0 {
		uploads, err = collectAndSync(p, sess, args)
		if err != nil {
			return err
		}
	} else {
		fmt.Println("No documents loaded. Use /add to index some.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			var done bool
			uploads, done = runChatCommand(p, sess, uploads, line)
			if done {
				break
			}
			continue
		}

		renderStream(os.Stdout, p.answer.Answer(cmd.Context(), sess, line))
	}
	return scanner.Err()
}

func runChatCommand(p *pipeline, sess *usecase.Session, uploads []string, line string) ([]string, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return uploads, true

	case "/files":
		files := sess.ActiveFiles()
		if len(files) == 0 {
			fmt.Println("No documents indexed.")
			break
		}
		for _, name := range files {
			fmt.Println(name)
		}

	case "/add":
		if len(fields) < 2 {
			fmt.Println("usage: /add <files or globs>")
			break
		}
		added, err := fs.Collect(fields[1:])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		next := mergePaths(uploads, added)
		if err := syncPaths(p, sess, next); err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		uploads = next

	case "/remove":
		if len(fields) != 2 {
			fmt.Println("usage: /remove <filename>")
			break
		}
		next := uploads[:0:0]
		for _, path := range uploads {
			if filepath.Base(path) != fields[1] {
				next = append(next, path)
			}
		}
		if len(next) == len(uploads) {
			fmt.Printf("no document named %s\n", fields[1])
			break
		}
		if err := syncPaths(p, sess, next); err != nil {
			fmt.Printf("error: %v\n", err)
			break
		}
		uploads = next

	default:
		fmt.Printf("unknown command %s (try /add, /remove, /files, /quit)\n", fields[0])
	}
	return uploads, false
}

// mergePaths appends the new paths, keeping first occurrences.
func mergePaths(have, add []string) []string {
	seen := make(map[string]bool, len(have))
	merged := append([]string(nil), have...)
	for _, path := range have {
		seen[path] = true
	}
	for _, path := range add {
		if !seen[path] {
			seen[path] = true
			merged = append(merged, path)
		}
	}
	return merged
}
