package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/cortex-research/cortex/internal/indexer"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements indexer.ProgressReporter with progress
// bars, adapted from the teacher's own CLIProgressReporter
// (internal/cli/progress.go) down to the three callbacks the rebuilt
// indexer actually emits.
type CLIProgressReporter struct {
	quiet     bool
	fileBar   *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(total int) {
	if c.quiet {
		return
	}
	log.Printf("Discovered %d files\n", total)

	c.fileBar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(status *indexer.IndexStatus) {
	if c.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("✓ Indexing complete: %s chunks in %.1fs\n",
		formatNumber(status.TotalChunks), time.Since(c.startTime).Seconds())
	fmt.Printf("  Files: %s added, %s modified, %s deleted (%s unchanged)\n",
		formatNumber(status.FilesAdded), formatNumber(status.FilesModified),
		formatNumber(status.FilesDeleted), formatNumber(status.FilesUnchanged))
}

// formatNumber adds thousands separators to large counts, matching the
// teacher's own formatNumber (internal/cli/indexer_status.go).
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
