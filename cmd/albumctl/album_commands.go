package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/album"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/session"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/storage"
)

type albumFlags struct {
	title       string
	description string
}

func (f *albumFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Album title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Album description")
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  albumFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <image>...",
		Short: "Build an album from images and write it as PDF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildAlbum(cmd, ctx, album.ClientClipboard{}, flags, args)
			if err != nil {
				return err
			}

			result, err := s.Export(cmd.Context())
			if err != nil {
				return err
			}

			dir, name := ".", result.FileName
			if output != "" {
				if info, err := os.Stat(output); err == nil && info.IsDir() {
					dir = output
				} else {
					dir, name = filepath.Split(output)
				}
			}
			if dir == "" {
				dir = "."
			}

			store, err := storage.NewLocalStorage(dir)
			if err != nil {
				return err
			}
			target, err := store.Save(cmd.Context(), name, bytes.NewReader(result.Document))
			if err != nil {
				return fmt.Errorf("write document: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, skipped := range result.Skipped {
				fmt.Fprintf(out, "Skipped %s: %s\n", skipped.Name, skipped.Reason)
			}
			fmt.Fprintf(out, "Wrote %s (%d pages, %d photos)\n", target, result.PageCount, result.Placed)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default: <title>.pdf)")
	return cmd
}

func newShareCommand(ctx *commandContext) *cobra.Command {
	var (
		flags    albumFlags
		copyLink bool
	)

	cmd := &cobra.Command{
		Use:   "share <image>...",
		Short: "Build an album from images and print its share link",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cb album.Clipboard = album.ClientClipboard{}
			if copyLink {
				cb = ctx.clipboard
			}

			s, err := buildAlbum(cmd, ctx, cb, flags, args)
			if err != nil {
				return err
			}

			result, err := s.Share()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Link)
			if copyLink {
				if result.Copied {
					fmt.Fprintln(cmd.ErrOrStderr(), "Link copied to clipboard")
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&copyLink, "copy", false, "Copy the link to the system clipboard")
	return cmd
}

// buildAlbum runs the upload and build stages over files on disk.
func buildAlbum(cmd *cobra.Command, ctx *commandContext, cb album.Clipboard, flags albumFlags, paths []string) (*session.Session, error) {
	s, err := ctx.newSession(ctx.loadCfg(), cb)
	if err != nil {
		return nil, err
	}

	files := make([]photo.CandidateFile, 0, len(paths))
	for _, path := range paths {
		f, err := photo.FromPath(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	added, err := s.AddFiles(cmd.Context(), files)
	if added != nil {
		reportRejected(cmd.ErrOrStderr(), added.Rejected)
		reportRejected(cmd.ErrOrStderr(), added.Failed)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.GoToOrganize(); err != nil {
		return nil, err
	}
	if _, err := s.BuildAlbum(cmd.Context(), flags.title, flags.description); err != nil {
		return nil, err
	}
	return s, nil
}

func reportRejected(w io.Writer, rejected []photo.Rejection) {
	for _, r := range rejected {
		fmt.Fprintf(w, "Ignored %s: %s\n", r.Name, r.Reason)
	}
}
