package main

import (
	"github.com/spf13/cobra"

	"wmstudio/internal/studio"
	"wmstudio/pkg/logger"
	"wmstudio/pkg/watermark"
)

func newRenderCmd() *cobra.Command {
	var (
		in         string
		logo       string
		out        string
		templateID int64
		preview    bool
		pf         paramFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a watermark onto an image and export it as PNG",
		Example: `  wmstudio render --in photo.jpg --text "© 2024 Jane" --pos-x 90 --pos-y 92
  wmstudio render --in photo.jpg --logo logo.svg --kind image --logo-scale 15
  wmstudio render --in photo.jpg --template 1718000000000 --preview`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []studio.Option{
				studio.WithCompositor(newCompositor(cfg)),
				studio.WithParams(cfg.Defaults.Params()),
				studio.WithMaxUploadBytes(cfg.MaxUploadBytes()),
				studio.WithExportName(cfg.Export.Filename),
			}
			if cmd.Flags().Changed("template") {
				store, closeStore, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer closeStore()
				opts = append(opts, studio.WithStore(store))
			}
			session := studio.New(opts...)

			if err := session.LoadBaseFile(in); err != nil {
				return err
			}
			if logo != "" {
				if err := session.LoadLogoFile(logo); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("template") {
				if err := session.ApplyTemplate(templateID); err != nil {
					return err
				}
			}
			session.Update(func(p *watermark.RenderParams) { pf.apply(cmd.Flags(), p) })

			if p := session.Params(); p.Kind == watermark.KindImage && !session.HasLogo() {
				logger.LogWarn("Image watermark selected but no --logo given; exporting the base unchanged")
			}

			path, err := session.ExportFile(out)
			if err != nil {
				return err
			}

			if preview {
				img, _ := session.Rendered()
				printPreview(cmd.OutOrStdout(), img)
			}
			logger.LogSuccess("Saved %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Base image (PNG, JPEG, GIF, WebP, SVG)")
	cmd.Flags().StringVar(&logo, "logo", "", "Logo image for image watermarks")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default from export.filename)")
	cmd.Flags().Int64Var(&templateID, "template", 0, "Start from a saved template id")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print an ASCII preview of the result")
	pf.register(cmd.Flags())

	cmd.MarkFlagRequired("in")
	return cmd
}
