package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/rmgweb/internal/application/depiction"
	"github.com/turtacn/rmgweb/internal/application/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// depiction
// ─────────────────────────────────────────────────────────────────────────────

func newDepictionCmd(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depiction",
		Short: "Manage the stored structure images",
	}
	cmd.AddCommand(newDepictionKeyCmd(), newDepictionUploadCmd(deps))
	return cmd
}

func newDepictionKeyCmd() *cobra.Command {
	flags := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "key [ADJLIST|-]",
		Short: "Print the object key a structure's image is stored under",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := flags.parse(cmd, args)
			if err != nil {
				return err
			}
			key, err := depiction.Key(obj)
			if err != nil {
				return err
			}
			return PrintResult(cmd, key)
		},
	}
	flags.register(cmd, false)
	return cmd
}

// UploadResult reports a stored depiction.
type UploadResult minio.ObjectInfo

func (r UploadResult) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", r.Key, r.ContentType, r.Size)
}

func (r UploadResult) TableHeaders() []string { return []string{"Key", "Content-Type", "Size", "ETag"} }

func (r UploadResult) TableRows() [][]string {
	return [][]string{{r.Key, r.ContentType, strconv.FormatInt(r.Size, 10), r.ETag}}
}

func newDepictionUploadCmd(deps Dependencies) *cobra.Command {
	flags := &structureFlags{}
	var (
		image       string
		contentType string
	)
	cmd := &cobra.Command{
		Use:   "upload --image FILE [ADJLIST|-]",
		Short: "Store an image as the depiction of a structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			obj, err := flags.parse(cmd, args)
			if err != nil {
				return err
			}

			ct := contentType
			if ct == "" {
				ct = depiction.ContentTypeForExtension(filepath.Ext(image))
			}
			f, err := os.Open(image)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeBadRequest, "failed to open image").WithDetail(image)
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeBadRequest, "failed to stat image").WithDetail(image)
			}

			ctx, cancel := withTimeout(cmd, cliCtx)
			defer cancel()

			logger := cliCtx.Logger.Named("depiction")
			store, err := deps.OpenStore(ctx, cliCtx.Config, logger)
			if err != nil {
				return err
			}
			svc := depiction.NewService(store, logger, nil)
			info, err := svc.Upload(ctx, obj, f, st.Size(), ct)
			if err != nil {
				return err
			}
			return PrintResult(cmd, UploadResult(*info))
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&image, "image", "", "image file to upload (required)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "image content type (default: from the file extension)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// cache
// ─────────────────────────────────────────────────────────────────────────────

func newCacheCmd(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered markup cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Remove every cached markup fragment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd, cliCtx)
			defer cancel()

			cache, closer, err := deps.OpenCache(ctx, cliCtx.Config, cliCtx.Logger.Named("redis"))
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			n, err := cache.DeleteByPrefix(ctx, structure.MarkupCacheName+":")
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("removed %d cached fragments", n))
			return nil
		},
	})
	return cmd
}

//Personal.AI order the ending
