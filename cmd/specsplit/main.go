package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cubahno/specsplit/internal/config"
	"github.com/cubahno/specsplit/internal/splitter"
)

const cmdPath = "github.com/cubahno/specsplit/cmd/specsplit"

// Custom type for a string slice flag
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, " ")
}

func (s *stringSlice) Set(value string) error {
	value = strings.Trim(value, " ")
	if value == "" {
		return nil
	}
	*s = append(*s, strings.Split(value, " ")...)
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: go run %s [options] <path-to-spec>\n\n", cmdPath)
		fmt.Fprintf(os.Stderr, "Splits an OpenAPI spec in two by tag membership.\n\n")
		fmt.Fprintf(os.Stderr, "The command:\n")
		fmt.Fprintf(os.Stderr, "  - Moves path entries whose operations reference one of the given tags\n")
		fmt.Fprintf(os.Stderr, "    into a separate document, together with the matching tag declarations\n")
		fmt.Fprintf(os.Stderr, "  - Rewrites the source (or -remaining) with everything else\n")
		fmt.Fprintf(os.Stderr, "  - Duplicates the rest of the header (info, servers, ...) into both\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Split out the default tags (TVL, yields), rewriting the source\n")
		fmt.Fprintf(os.Stderr, "  go run %s defi-llama-api.yaml\n\n", cmdPath)
		fmt.Fprintf(os.Stderr, "  # Split out billing endpoints into a chosen file\n")
		fmt.Fprintf(os.Stderr, "  go run %s -tag billing -extracted billing-api.yml openapi.yml\n\n", cmdPath)
		fmt.Fprintf(os.Stderr, "  # Validate both outputs before writing\n")
		fmt.Fprintf(os.Stderr, "  go run %s -validate kin openapi.yml\n\n", cmdPath)
		fmt.Fprintf(os.Stderr, "  # Keep re-splitting while editing the source\n")
		fmt.Fprintf(os.Stderr, "  go run %s -watch -remaining public.yml openapi.yml\n", cmdPath)
	}
}

func main() {
	var src string
	var remaining string
	var extracted string
	var configPath string
	var validate string
	var watch bool
	var tags stringSlice

	flag.StringVar(&src, "src", "", "path or URL of the source openapi file")
	flag.StringVar(&remaining, "remaining", "", "output path for the remaining document (default: rewrite the source)")
	flag.StringVar(&extracted, "extracted", "", "output path for the extracted document (default: <src>.extracted.<ext>)")
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&validate, "validate", "", "validate outputs before writing: none, kin or libopenapi")
	flag.BoolVar(&watch, "watch", false, "re-split whenever the source file changes")
	flag.Var(&tags, "tag", "tag names to extract. Space separated values or multiple -tag flags")

	flag.Parse()

	if len(flag.Args()) == 1 && src == "" {
		src = flag.Arg(0)
	}

	cfg := config.NewDefaultConfig()
	if configPath != "" {
		cfg = config.MustConfig(configPath)
	}

	// flags win over config file values
	if src != "" {
		cfg.Source = src
	}
	if remaining != "" {
		cfg.Remaining = remaining
	}
	if extracted != "" {
		cfg.Extracted = extracted
	}
	if validate != "" {
		cfg.Validate = validate
	}
	if len(tags) > 0 {
		cfg.Tags = tags
	}

	s, err := splitter.NewSplitter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Run with -help for more information.\n")
		os.Exit(1)
	}

	runSplit := func() error {
		res, err := s.Run()
		if err != nil {
			return err
		}
		slog.Info("split complete",
			"remaining", res.RemainingPath,
			"extracted", res.ExtractedPath,
			"remainingPaths", res.RemainingPaths,
			"extractedPaths", res.ExtractedPaths,
			"remainingTags", res.RemainingTags,
			"extractedTags", res.ExtractedTags,
		)
		return nil
	}

	if err := runSplit(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !watch {
		return
	}

	// rewriting the source while watching it would loop forever
	if cfg.Remaining == "" || filepath.Clean(cfg.Remaining) == filepath.Clean(cfg.Source) {
		fmt.Fprintf(os.Stderr, "Error: -watch requires -remaining to differ from the source\n")
		os.Exit(1)
	}

	sw, err := newSourceWatcher(cfg.Source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sw.setOnChange(runSplit)
	sw.start()
	defer sw.stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
}
