package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prospectus/internal/extract"
	"prospectus/internal/service"
)

var ingestFull bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Chunk a prospectus file and print the resulting chunk table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, zap.L())
		if err != nil {
			return err
		}
		res, err := loadFile(cmd.Context(), a, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d pages, strategy %s, %d segments, %d built, %d kept\n\n",
			args[0], res.TotalPages, res.Report.Strategy, res.Report.Segments, res.Report.Built, res.Report.Kept)
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "PAGE", "TAG", "CHARS", "TEXT")
		for _, c := range res.Chunks {
			text := strings.Join(strings.Fields(c.Text), " ")
			if !ingestFull {
				text = preview(text, 60)
			}
			t.Row(c.ID, strconv.Itoa(c.Page), string(c.Tag), strconv.Itoa(len([]rune(c.Text))), text)
		}
		_, err = fmt.Fprintln(out, t.Render())
		return err
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestFull, "full", false, "print full chunk text")
	rootCmd.AddCommand(ingestCmd)
}

// loadFile reads path and ingests it into the app's assistant.
func loadFile(ctx context.Context, a *app, path string) (service.IngestResult, error) {
	doc, err := extract.File(path)
	if err != nil {
		return service.IngestResult{}, err
	}
	res, err := a.assistant.IngestDocument(ctx, doc)
	if err != nil {
		return res, eris.Wrapf(err, "ingest %s", path)
	}
	return res, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// exists reports whether path names a regular file.
func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
