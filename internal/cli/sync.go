package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"pdfchat/internal/adapter/fs"
	"pdfchat/internal/usecase"
)

// syncPaths reconciles the session with the given concrete file paths,
// showing extraction progress and a per-sync summary.
func syncPaths(p *pipeline, sess *usecase.Session, paths []string) error {
	var bar *progressbar.ProgressBar
	progress := func(done, total int, file string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	summary, err := p.sync.Sync(sess, paths, progress)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %d file(s), %d chunk(s) added, %d reused, %d removed\n",
		summary.FilesProcessed, summary.ChunksAdded, summary.FilesReused, summary.FilesRemoved)
	for _, name := range summary.Failed {
		fmt.Printf("warning: could not process %s, skipping\n", name)
	}
	return nil
}

// collectAndSync expands file, directory and glob arguments before
// syncing.
func collectAndSync(p *pipeline, sess *usecase.Session, args []string) ([]string, error) {
	paths, err := fs.Collect(args)
	if err != nil {
		return nil, err
	}
	if err := syncPaths(p, sess, paths); err != nil {
		return nil, err
	}
	return paths, nil
}
