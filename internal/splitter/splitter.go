// Package splitter partitions an OpenAPI document into two documents based
// on a set of tag names: path entries and tag declarations matching the set
// move to an extracted document, everything else stays in the remaining one.
package splitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cubahno/specsplit/internal/config"
	"github.com/cubahno/specsplit/internal/files"
	"github.com/cubahno/specsplit/internal/validator"
)

// Splitter runs the whole split: load, partition, render, validate and
// persist both outputs.
type Splitter struct {
	cfg       *config.Config
	validator validator.Validator
}

// RunResult describes a completed split.
type RunResult struct {
	RemainingPath string
	ExtractedPath string

	RemainingTags  int
	ExtractedTags  int
	RemainingPaths int
	ExtractedPaths int
}

// NewSplitter creates a Splitter from a config.
// The config must name a source document; the validator is selected by the
// config's Validate value.
func NewSplitter(cfg *config.Config) (*Splitter, error) {
	if cfg.Source == "" {
		return nil, ErrNoSource
	}

	// a URL source cannot be rewritten in place
	if files.IsURL(cfg.Source) && cfg.Remaining == "" {
		return nil, ErrRemainingPathRequired
	}

	v, err := validator.NewValidator(validator.Provider(cfg.Validate))
	if err != nil {
		return nil, err
	}

	return &Splitter{
		cfg:       cfg,
		validator: v,
	}, nil
}

// Run performs the split. Both outputs are fully rendered (and validated,
// when a validator is configured) before anything touches the disk, so a
// failed run leaves the source intact.
func (s *Splitter) Run() (*RunResult, error) {
	doc, err := NewDocumentFromFile(s.cfg.Source)
	if err != nil {
		return nil, err
	}

	res, err := doc.Split(NewTagSet(s.cfg.Tags...))
	if err != nil {
		return nil, err
	}

	remaining, err := res.Remaining()
	if err != nil {
		return nil, err
	}

	extracted, err := res.Extracted()
	if err != nil {
		return nil, err
	}

	if s.validator != nil {
		if err := s.validator.Validate(remaining); err != nil {
			return nil, fmt.Errorf("remaining document is invalid: %w", err)
		}
		if err := s.validator.Validate(extracted); err != nil {
			return nil, fmt.Errorf("extracted document is invalid: %w", err)
		}
	}

	remainingPath := s.cfg.Remaining
	if remainingPath == "" {
		remainingPath = s.cfg.Source
	}

	extractedPath := s.cfg.Extracted
	if extractedPath == "" {
		extractedPath = ExtractedPath(s.cfg.Source)
	}

	// extracted goes first: if it fails, the source has not been rewritten
	if err := files.SaveFile(extractedPath, extracted); err != nil {
		return nil, err
	}
	if err := files.SaveFile(remainingPath, remaining); err != nil {
		return nil, err
	}

	return &RunResult{
		RemainingPath:  remainingPath,
		ExtractedPath:  extractedPath,
		RemainingTags:  res.RemainingTags,
		ExtractedTags:  res.ExtractedTags,
		RemainingPaths: res.RemainingPaths,
		ExtractedPaths: res.ExtractedPaths,
	}, nil
}

// ExtractedPath derives the default extracted output path from the source:
// specs/api.yml -> specs/api.extracted.yml.
func ExtractedPath(src string) string {
	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".yml"
	}
	return fmt.Sprintf("%s.extracted%s", strings.TrimSuffix(src, filepath.Ext(src)), ext)
}
