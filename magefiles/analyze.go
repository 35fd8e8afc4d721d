//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Analyze groups targets that run the citation analyses over citations/*.bib.
type Analyze mg.Namespace

func citationFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join("citations", "*.bib"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no citation files in citations/ (run mage init and add .bib files)")
	}
	return files, nil
}

func runAnalysis(kind string) error {
	mg.Deps(Build, Init)
	files, err := citationFiles()
	if err != nil {
		return err
	}
	args := []string{"analyze", "-a", kind, "-o", filepath.Join("reports", "merged-"+kind+".bib")}
	for _, f := range files {
		args = append(args, "-i", f)
	}
	return sh.RunV(binPath(), args...)
}

// HIndex computes the overall and yearly h-index.
func (Analyze) HIndex() error { return runAnalysis("h-index") }

// Self counts self-references per year and entry type.
func (Analyze) Self() error { return runAnalysis("self") }

// Authors counts the citing authors per year.
func (Analyze) Authors() error { return runAnalysis("author") }

// All runs every analysis.
func (Analyze) All() {
	mg.SerialDeps(Analyze.HIndex, Analyze.Self, Analyze.Authors)
}
