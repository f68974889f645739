package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/panoview/internal/photo"
)

var infoCmd = &cobra.Command{
	Use:   "info <photo>...",
	Short: "Print dimensions and EXIF metadata of photos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

var infoTimeout time.Duration

func init() {
	infoCmd.Flags().DurationVar(&infoTimeout, "timeout", 30*time.Second, "Timeout for remote photos")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := contextOrBackground(cmd)
	failed := 0
	for i, uri := range args {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fetchCtx, cancel := contextWithTimeout(ctx, infoTimeout)
		info, err := photo.ReadInfo(fetchCtx, nil, uri)
		cancel()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", uri, err)
			failed++
			continue
		}
		printInfo(cmd.OutOrStdout(), info)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d photos could not be read", failed, len(args))
	}
	return nil
}

func printInfo(w io.Writer, info *photo.Info) {
	fmt.Fprintln(w, info.URI)
	fmt.Fprintf(w, "  Format: %s\n", info.Format)
	fmt.Fprintf(w, "  Size: %dx%d", info.Width, info.Height)
	if info.Equirectangular() {
		fmt.Fprint(w, " (equirectangular)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Bytes: %d\n", info.Size)
	if !info.ModTime.IsZero() {
		fmt.Fprintf(w, "  Modified: %s\n", info.ModTime.Format(time.RFC3339))
	}

	if len(info.EXIF) == 0 {
		return
	}
	keys := make([]string, 0, len(info.EXIF))
	for k := range info.EXIF {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "  EXIF:")
	for _, k := range keys {
		fmt.Fprintf(w, "    %s: %s\n", k, info.EXIF[k])
	}
}

func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
