package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	feishuextractor "github.com/kataras/feishu-extractor"
	"github.com/kataras/feishu-extractor/internal/config"
	"github.com/kataras/feishu-extractor/pkg/feishu"
	"github.com/kataras/feishu-extractor/pkg/output"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = feishu.Version

var (
	docURL       string
	folderToken  string
	appID        string
	appSecret    string
	configFile   string
	outputDir    string
	imageDir     string
	pageSize     int
	pageCount    int
	htmlOutput   bool
	frontMatter  bool
	skipExisting bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "feishu-extractor",
		Short: "Convert Feishu documents to Markdown",
		Long:  "A tool to convert Feishu (Lark) docx documents, or whole drive folders, into Markdown files with local images via the Feishu Open Platform API",
		Run:   run,
	}

	rootCmd.Flags().StringVarP(&docURL, "url", "u", "", "Feishu docx document URL")
	rootCmd.Flags().StringVarP(&folderToken, "folder", "f", "", "Drive folder token, converts every docx document of the folder")
	rootCmd.Flags().StringVar(&appID, "app-id", "", "Feishu app id (or "+config.EnvAppID+")")
	rootCmd.Flags().StringVar(&appSecret, "app-secret", "", "Feishu app secret (or "+config.EnvAppSecret+")")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", config.DefaultFile, "YAML config file")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Output directory for Markdown files")
	rootCmd.Flags().StringVar(&imageDir, "image-dir", ".", "Output directory for downloaded images")
	rootCmd.Flags().IntVar(&pageSize, "page-size", 200, "Folder listing page size")
	rootCmd.Flags().IntVar(&pageCount, "page-count", 3, "Maximum number of folder listing pages")
	rootCmd.Flags().BoolVar(&htmlOutput, "html", false, "Also write an HTML rendition of every document")
	rootCmd.Flags().BoolVar(&frontMatter, "front-matter", false, "Prepend YAML front matter with the document metadata")
	rootCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip documents already exported to the output directory (requires --front-matter output)")

	rootCmd.MarkFlagsOneRequired("url", "folder")
	rootCmd.MarkFlagsMutuallyExclusive("url", "folder")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("feishu-extractor version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n📄 Feishu Document Extractor")
	cyan.Println("============================")
	cyan.Println()

	cfg, err := loadConfig(cmd)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	writer := output.NewWriter(cfg.OutputDir, cfg.FrontMatter, cfg.HTML)

	opts := feishuextractor.Options{
		AppID:       cfg.AppID,
		AppSecret:   cfg.AppSecret,
		BaseURL:     cfg.BaseURL,
		DocURL:      docURL,
		FolderToken: folderToken,
		PageSize:    cfg.PageSize,
		PageCount:   cfg.PageCount,
		ImageDir:    cfg.ImageDir,
		HandleImage: relativeTo(cfg.OutputDir),
		OnProgress: func(done, errors, total int) {
			cyan.Printf("⏳ Progress: %d done, %d failed, %d total\n", done, errors, total)
		},
		OnDocument: func(ctx context.Context, task feishuextractor.Task, markdown string) error {
			green.Printf("💾 Writing %s... ", task.Name)
			path, err := writer.Write(output.Document{
				ID:       task.ID,
				Title:    task.Name,
				Source:   task.URL,
				Revision: task.Revision,
				Markdown: markdown,
			})
			if err != nil {
				red.Printf("✗\n")
				return err
			}
			green.Printf("✓ %s\n", path)
			return nil
		},
		Logger: &cliLogger{},
	}

	if cfg.SkipExisting {
		idx, err := output.LoadIndex(cfg.OutputDir)
		if err != nil {
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		opts.ShouldHandle = func(ctx context.Context, url string) (bool, error) {
			return !idx.HasSource(url), nil
		}
	}

	result, err := feishuextractor.Run(cmd.Context(), opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		if result == nil {
			os.Exit(1)
		}
	}

	cyan.Println("\n📊 Conversion Summary:")
	fmt.Printf("  • Documents: %d\n", result.Total)
	fmt.Printf("  • Converted: %d\n", result.Done)
	fmt.Printf("  • Failed: %d\n", result.Errors)
	if result.Skipped > 0 {
		fmt.Printf("  • Skipped: %d\n", result.Skipped)
	}

	if result.Errors > 0 || err != nil {
		red.Printf("\n✗ Finished with errors\n\n")
		os.Exit(1)
	}

	green.Printf("\n✨ Successfully converted %d document(s) to %s\n\n", result.Done, cfg.OutputDir)
}

// loadConfig merges the config file and environment with the flags that
// were set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("app-id") {
		cfg.AppID = appID
	}
	if flags.Changed("app-secret") {
		cfg.AppSecret = appSecret
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("image-dir") {
		cfg.ImageDir = imageDir
	}
	if flags.Changed("page-size") {
		cfg.PageSize = pageSize
	}
	if flags.Changed("page-count") {
		cfg.PageCount = pageCount
	}
	if flags.Changed("html") {
		cfg.HTML = htmlOutput
	}
	if flags.Changed("front-matter") {
		cfg.FrontMatter = frontMatter
	}
	if flags.Changed("skip-existing") {
		cfg.SkipExisting = skipExisting
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// relativeTo rewrites image paths relative to the directory holding the
// Markdown files, with forward slashes.
func relativeTo(dir string) func(ctx context.Context, localPath string) (string, error) {
	return func(ctx context.Context, localPath string) (string, error) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return filepath.ToSlash(localPath), nil
		}
		absPath, err := filepath.Abs(localPath)
		if err != nil {
			return filepath.ToSlash(localPath), nil
		}
		rel, err := filepath.Rel(absDir, absPath)
		if err != nil {
			return filepath.ToSlash(localPath), nil
		}
		return filepath.ToSlash(rel), nil
	}
}

// cliLogger implements feishuextractor.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
