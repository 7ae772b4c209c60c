package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formkit "github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/internal/prompt"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/pagedef"
)

type renderOptions struct {
	*rootOptions

	output      string
	format      string
	interactive bool
	watch       bool
	set         []string

	driver prompt.Driver
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "render <page.yaml>",
		Short: "Render a page definition to HTML",
		Long: `Builds the component tree described by a page definition, binds it to the
page markup and prints the resulting HTML.

Example:
  formkit render page.yaml --set plan=pro --output page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.driver == nil {
				opts.driver = prompt.NewSurveyDriver(cmd.ErrOrStderr())
			}
			if err := opts.renderOnce(cmd, args[0]); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return watchFile(cmd.Context(), args[0], opts.logger, func() error {
				return opts.renderOnce(cmd, args[0])
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write HTML to a file instead of stdout")
	cmd.Flags().StringVar(&opts.format, "format", "", "renderer name (markup or html); defaults from config")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the selection of every choice component")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the definition file changes")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "override page values, as key=value[,key=value]")
	return cmd
}

func (o *renderOptions) renderOnce(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	def, err := pagedef.LoadFile(path)
	if err != nil {
		return err
	}
	if def.Values == nil {
		def.Values = make(map[string]any)
	}
	for _, raw := range o.set {
		for _, attr := range markup.ParseValueMap(raw) {
			def.Values[attr.Key] = attr.Value
		}
	}

	options := o.kitOptions(filepath.Dir(path))
	builder, err := formkit.NewBuilder(options...)
	if err != nil {
		return err
	}
	page, err := builder.Build(ctx, def)
	if err != nil {
		return err
	}
	if o.interactive {
		if err := prompt.SelectChoices(ctx, o.driver, page); err != nil {
			return err
		}
	}

	renderer, err := formkit.Renderer(options...)
	if err != nil {
		return err
	}
	result, err := renderer.Render(ctx, page.Page)
	if err != nil {
		return err
	}

	if o.output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), result.Markup)
		return err
	}
	if err := os.WriteFile(o.output, []byte(result.Markup), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	o.logger.Info("page written",
		zap.String("definition", path),
		zap.String("output", o.output),
		zap.Int("bytes", len(result.Markup)))
	return nil
}

func (o *renderOptions) kitOptions(dir string) []formkit.Option {
	options := []formkit.Option{
		formkit.WithConfig(o.cfg),
		formkit.WithBaseDir(dir),
		formkit.WithLogger(o.logger),
		formkit.WithRenderer(o.format),
	}
	if o.configPath != "" {
		options = append(options, formkit.WithConfigDir(filepath.Dir(o.configPath)))
	}
	return options
}
