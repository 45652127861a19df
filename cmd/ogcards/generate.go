package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aellingwood/ogcards/internal/build"
	"github.com/aellingwood/ogcards/internal/config"
	"github.com/aellingwood/ogcards/internal/image"
	"github.com/aellingwood/ogcards/internal/seo"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the preview images",
	Long: `Render the Open Graph and Twitter Card images into the output directory
and print the HTML meta tags that reference them.

Images whose inputs have not changed since the last run are left alone;
pass --force to render them anyway.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

// addGenerateFlags registers the generate flags on cmd. The root command
// carries them too, since it runs generate by default.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("destination", "d", "", "output directory (overrides output.dir)")
	cmd.Flags().String("baseURL", "", "public base URL used in the HTML snippet")
	cmd.Flags().Int("quality", 0, "JPEG quality, 1-100 (overrides output.quality)")
	cmd.Flags().Bool("force", false, "render images even if they are up to date")
	cmd.Flags().String("boldFont", "", "TrueType font for title lines (overrides fonts.bold)")
	cmd.Flags().String("regularFont", "", "TrueType font for other lines (overrides fonts.regular)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	overrides := map[string]any{}
	if cmd.Flags().Changed("destination") {
		v, _ := cmd.Flags().GetString("destination")
		overrides["destination"] = v
	}
	if cmd.Flags().Changed("baseURL") {
		v, _ := cmd.Flags().GetString("baseURL")
		overrides["baseURL"] = v
	}
	if cmd.Flags().Changed("quality") {
		v, _ := cmd.Flags().GetInt("quality")
		overrides["quality"] = v
	}
	for _, name := range []string{"boldFont", "regularFont"} {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			overrides[name] = v
		}
	}
	cfg.WithOverrides(overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Generating OG and Twitter Card images...")

	g := build.NewGenerator(cfg, build.Options{Force: force, Verbose: verbose})
	result, err := g.Generate(ctx)
	if err != nil {
		if errors.Is(err, image.ErrMissingEncoder) {
			printRemediation(out)
		}
		return err
	}

	for _, o := range result.Outputs {
		if o.Skipped {
			fmt.Fprintf(out, "Up to date: %s\n", o.Path)
		} else {
			fmt.Fprintf(out, "Created: %s\n", o.Path)
		}
	}

	meta := g.Meta()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Images generated successfully: %d written, %d up to date in %s\n",
		result.Written(), len(result.Outputs)-result.Written(), result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Dimensions: %dx%d pixels\n", meta.Width, meta.Height)
	fmt.Fprintf(out, "Format: JPEG (%d%% quality)\n", result.Quality)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Add to your HTML head:")
	for _, line := range strings.Split(seo.Snippet(meta), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	return nil
}

// printRemediation explains how to get a build with working JPEG support.
func printRemediation(w io.Writer) {
	fmt.Fprintln(w, "Error: JPEG encoding is not available in this ogcards build.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "To create the images, reinstall ogcards from source:")
	fmt.Fprintln(w, "  go install github.com/aellingwood/ogcards/cmd/ogcards@latest")
}

// loadConfig resolves the --config flag. A missing file at the default path
// means built-in defaults; a missing file that was asked for is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, _ := flags.GetString("config")

	if !flags.Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
