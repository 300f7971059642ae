package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prospectus/internal/contentstore"
	"prospectus/internal/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask [file]",
	Short: "Chat with the assistant in the terminal",
	Long:  "Loads a prospectus file, or the SQLite content store when no file is given, and opens an interactive chat.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		// The TUI owns the terminal; keep logs off it.
		a, err := newApp(cfg, zap.NewNop())
		if err != nil {
			return err
		}

		var header string
		switch {
		case len(args) == 1:
			res, err := loadFile(ctx, a, args[0])
			if err != nil {
				return err
			}
			header = fmt.Sprintf("%s: %d chunks from %d pages", args[0], len(res.Chunks), res.TotalPages)
		case cfg.ContentStore.SQLitePath != "" && exists(cfg.ContentStore.SQLitePath):
			src, err := contentstore.OpenSQLite(ctx, cfg.ContentStore.SQLitePath)
			if err != nil {
				return err
			}
			defer src.Close()
			snap, err := a.assistant.Sync(ctx, src, "sqlite")
			if err != nil {
				return err
			}
			header = fmt.Sprintf("%s: %d chunks", cfg.ContentStore.SQLitePath, snap.Len())
		default:
			return eris.New("no prospectus loaded: pass a file or set contentstore.sqlite_path")
		}

		if _, err := tea.NewProgram(tui.New(a.assistant, header), tea.WithAltScreen()).Run(); err != nil {
			return eris.Wrap(err, "run chat")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
