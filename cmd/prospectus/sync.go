package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prospectus/internal/contentstore"
	"prospectus/internal/domain"
)

var (
	syncDB   string
	syncFrom string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load chunks from the SQLite content store, or seed it from a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := syncDB
		if path == "" {
			path = cfg.ContentStore.SQLitePath
		}
		if path == "" {
			return eris.New("no content store: pass --db or set contentstore.sqlite_path")
		}

		a, err := newApp(cfg, zap.L())
		if err != nil {
			return err
		}
		src, err := contentstore.OpenSQLite(ctx, path)
		if err != nil {
			return err
		}
		defer src.Close()

		out := cmd.OutOrStdout()
		if syncFrom != "" {
			res, err := loadFile(ctx, a, syncFrom)
			if err != nil {
				return err
			}
			if err := src.SaveChunks(ctx, res.Chunks); err != nil {
				return err
			}
			fmt.Fprintf(out, "stored %d chunks from %s in %s\n", len(res.Chunks), syncFrom, path)
		}

		snap, err := a.assistant.Sync(ctx, src, "sqlite")
		if err != nil {
			return err
		}
		tags := map[domain.Tag]int{}
		for _, c := range snap.Chunks {
			tags[c.Tag]++
		}
		fmt.Fprintf(out, "loaded %d chunks (generation %d) from %s\n", snap.Len(), snap.Generation, path)
		for _, t := range []domain.Tag{domain.TagPrograms, domain.TagFees, domain.TagAdmissions, domain.TagContact, domain.TagAbout, domain.TagGeneral} {
			if n := tags[t]; n > 0 {
				fmt.Fprintf(out, "  %-10s %d\n", t, n)
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncDB, "db", "", "SQLite content store path (default from config)")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "ingest this file and store its chunks before loading")
	rootCmd.AddCommand(syncCmd)
}
