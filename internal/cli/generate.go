// Package cli wires the idlgen command line: flag handling, the optional
// .idlgen.yml overlay, and writing the finished document to disk.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/feerouter/idlgen/internal/idl"
)

// Defaults for every generation knob. They mirror the fee router's crate
// layout so a bare `idlgen generate` works from the repository root.
const (
	DefaultProgramDir = "programs/meteora-fee-router"
	DefaultEntryFile  = "src/lib.rs"
	DefaultOutput     = "target/idl/meteora_fee_router.json"
	DefaultName       = "meteora_fee_router"
	DefaultAddress    = "HNgumZPoZAt5JmuqWCe2WRTPfP6MZcZgFTpYLUVkusWu"
)

// DefaultContextFiles are the context files searched for account schema
// structs, relative to the program directory.
var DefaultContextFiles = []string{
	"src/modules/position/contexts.rs",
	"src/modules/claiming/contexts.rs",
	"src/modules/distribution/contexts.rs",
}

// GenerateOptions holds configuration for one IDL generation run.
type GenerateOptions struct {
	ProgramDir     string
	EntryFile      string
	Output         string
	Name           string
	DefaultAddress string
	ContextFiles   []string
	ConfigPath     string
	Strict         bool
	Verbose        bool
}

// NewRootCommand returns the idlgen root command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idlgen",
		Short: "Anchor IDL generation tools",
	}
	cmd.AddCommand(newGenerateCommand())
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var opts GenerateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the program IDL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Generate(&opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.ProgramDir, "program-dir", DefaultProgramDir, "Path to the program crate")
	cmd.Flags().StringVar(&opts.EntryFile, "entry-file", DefaultEntryFile, "Entry source file, relative to --program-dir")
	cmd.Flags().StringVar(&opts.Output, "output", DefaultOutput, "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&opts.Name, "name", DefaultName, "Program name stamped on the document")
	cmd.Flags().StringVar(&opts.DefaultAddress, "default-address", DefaultAddress, "Program address used when the source has no declare_id! marker")
	cmd.Flags().StringSliceVar(&opts.ContextFiles, "context-file", DefaultContextFiles, "Context files searched for account schemas, relative to --program-dir")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to .idlgen.yml config file")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail when canonical accounts diverge from the extracted schema")
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// Generate runs the full pipeline: read the entry source, assemble the
// document, cross-check it against the context schemas, and write it out.
// Status lines go to out; logs go to stderr.
func Generate(opts *GenerateOptions, out io.Writer) error {
	if err := loadConfigFile(opts); err != nil {
		return err
	}
	configureLogging(opts.Verbose)

	entryPath := filepath.Join(opts.ProgramDir, opts.EntryFile)
	src, err := os.ReadFile(entryPath)
	if err != nil {
		return fmt.Errorf("read program source: %w", err)
	}

	asm := idl.NewAssembler(idl.Config{
		ProgramDir:     opts.ProgramDir,
		ProgramName:    opts.Name,
		DefaultAddress: opts.DefaultAddress,
		ContextFiles:   opts.ContextFiles,
	})

	doc, err := asm.Assemble(string(src))
	if err != nil {
		return err
	}

	divs := asm.CrossCheck(string(src))
	for _, d := range divs {
		slog.Warn("canonical accounts diverge from context schema", "divergence", d.String())
	}
	if opts.Strict && len(divs) > 0 {
		return fmt.Errorf("%d account divergence(s) between canonical tables and context schemas", len(divs))
	}

	if err := writeDocument(doc, opts.Output); err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated IDL with %d instructions -> %s\n", len(doc.Instructions), opts.Output)
	return nil
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfigFile overlays .idlgen.yml values onto opts. Flags win: only
// fields still holding their default are overridden.
func loadConfigFile(opts *GenerateOptions) error {
	if opts.ConfigPath == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(opts.ConfigPath))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var cfg struct {
		IDL struct {
			ProgramDir     string   `yaml:"program-dir"`
			EntryFile      string   `yaml:"entry-file"`
			Output         string   `yaml:"output"`
			Name           string   `yaml:"name"`
			DefaultAddress string   `yaml:"default-address"`
			ContextFiles   []string `yaml:"context-files"`
		} `yaml:"idl"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if opts.ProgramDir == DefaultProgramDir && cfg.IDL.ProgramDir != "" {
		opts.ProgramDir = cfg.IDL.ProgramDir
	}
	if opts.EntryFile == DefaultEntryFile && cfg.IDL.EntryFile != "" {
		opts.EntryFile = cfg.IDL.EntryFile
	}
	if opts.Output == DefaultOutput && cfg.IDL.Output != "" {
		opts.Output = cfg.IDL.Output
	}
	if opts.Name == DefaultName && cfg.IDL.Name != "" {
		opts.Name = cfg.IDL.Name
	}
	if opts.DefaultAddress == DefaultAddress && cfg.IDL.DefaultAddress != "" {
		opts.DefaultAddress = cfg.IDL.DefaultAddress
	}
	if len(cfg.IDL.ContextFiles) > 0 && equalStrings(opts.ContextFiles, DefaultContextFiles) {
		opts.ContextFiles = cfg.IDL.ContextFiles
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// writeDocument serializes doc to path, creating parent directories. "-"
// writes to stdout. Each run fully overwrites the output file.
func writeDocument(doc *idl.Document, path string) error {
	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
