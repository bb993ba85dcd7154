package persist

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"time"
)

// RunManifest records the provenance and configuration of a single
// inference run: which method was used, at what alpha, against which
// commit, so a later reviewer can reproduce or audit a decision
// (spec.md's "supplemented features": run manifest writer with git
// provenance).
type RunManifest struct {
	RunID      string    `json:"run_id"`
	Method     string    `json:"method"`
	Alpha      float64   `json:"alpha"`
	GitCommit  string    `json:"git_commit,omitempty"`
	GitBranch  string    `json:"git_branch,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// NewRunManifest builds a RunManifest with best-effort git provenance:
// if the working directory isn't a git checkout, or git isn't on PATH,
// the commit/branch fields are left empty rather than failing the run.
func NewRunManifest(ctx context.Context, runID, method string, alpha float64, startedAt time.Time) RunManifest {
	return RunManifest{
		RunID:     runID,
		Method:    method,
		Alpha:     alpha,
		GitCommit: gitOutput(ctx, "rev-parse", "HEAD"),
		GitBranch: gitOutput(ctx, "rev-parse", "--abbrev-ref", "HEAD"),
		StartedAt: startedAt,
	}
}

// WriteManifestFile marshals manifest as indented JSON to path,
// for CLI commands that write a per-run manifest alongside a results
// directory rather than through a ManifestStore.
func WriteManifestFile(path string, manifest RunManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func gitOutput(ctx context.Context, args ...string) string {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
