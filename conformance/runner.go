package conformance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/domlife/domlife/dom"
	"github.com/domlife/domlife/js"
	"github.com/domlife/domlife/loop"
)

// SuiteResult is the outcome of running one conformance script.
type SuiteResult struct {
	File    string   `json:"file"`
	Tests   []Result `json:"tests"`
	Error   string   `json:"error,omitempty"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
}

// Runner executes conformance scripts, each against a fresh document and loop.
type Runner struct {
	Results []SuiteResult
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{}
}

// RunScript runs one script file: a fresh HTML document, the harness prelude,
// the script itself, then the loop until idle so every deferred assertion
// gets its turn. The result is appended to Results and returned.
func (r *Runner) RunScript(path string) SuiteResult {
	result := SuiteResult{File: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read script: %v", err)
		r.Results = append(r.Results, result)
		return result
	}

	lp := loop.New()
	doc := dom.NewHTMLDocument(lp)
	runtime := js.NewRuntime(doc)

	harness := NewHarness(runtime)
	if err := harness.Setup(); err != nil {
		result.Error = fmt.Sprintf("failed to install harness: %v", err)
		r.Results = append(r.Results, result)
		return result
	}

	if _, err := runtime.Execute(string(content)); err != nil {
		result.Error = fmt.Sprintf("script error: %v", err)
	}
	runtime.RunEventLoop()

	result.Tests = harness.Results()
	result.Passed, result.Failed = harness.Summary()
	r.Results = append(r.Results, result)
	return result
}

// RunDir runs every .js script in dir, in name order.
func (r *Runner) RunDir(dir string) ([]SuiteResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.js"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	results := make([]SuiteResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, r.RunScript(path))
	}
	return results, nil
}

// Summary returns the total pass/fail counts plus the number of scripts that
// failed to run at all.
func (r *Runner) Summary() (passed, failed, errored int) {
	for _, suite := range r.Results {
		passed += suite.Passed
		failed += suite.Failed
		if suite.Error != "" {
			errored++
		}
	}
	return passed, failed, errored
}

// ExportJSON renders all suite results as indented JSON.
func (r *Runner) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(r.Results, "", "  ")
}
