package cli

import (
	"fmt"
	"io"
	"sort"

	"anytime/persist"

	"github.com/urfave/cli/v2"
)

// manifestStoreDirName is the manifest-store subdirectory mean/abtest
// create under their --output directory, and that the runs command
// reads from via --store <output>/manifestStoreDirName.
const manifestStoreDirName = ".manifests"

// RunsCommand queries the on-disk manifest store that mean/abtest write
// to on every run, letting a reviewer look up or list past runs by ID
// without re-reading each run's output directory.
func RunsCommand() *cli.Command {
	storeFlag := &cli.StringFlag{
		Name:  "store",
		Usage: "Path to the manifest store directory (mean/abtest write it under <output>/" + manifestStoreDirName + ")",
		Value: manifestStoreDirName,
	}
	return &cli.Command{
		Name:  "runs",
		Usage: "Query past run manifests by ID",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all recorded runs",
				Flags: []cli.Flag{storeFlag},
				Action: func(c *cli.Context) error {
					return runRunsList(c.App.Writer, c.String("store"))
				},
			},
			{
				Name:      "show",
				Usage:     "Show the manifest for a single run ID",
				ArgsUsage: "<run-id>",
				Flags:     []cli.Flag{storeFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: anytime runs show <run-id>", ExitConfigError)
					}
					return runRunsShow(c.App.Writer, c.String("store"), c.Args().First())
				},
			},
		},
	}
}

func openManifestStore(dir string) (*persist.ManifestStore, func() error, error) {
	backend, err := persist.NewFileBadgerBackend(dir)
	if err != nil {
		return nil, nil, err
	}
	return persist.NewManifestStore(backend), backend.Close, nil
}

func runRunsList(stdout io.Writer, storeDir string) error {
	store, closeStore, err := openManifestStore(storeDir)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}
	defer closeStore()

	manifests, err := store.ListManifests()
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].StartedAt.Before(manifests[j].StartedAt)
	})

	if len(manifests) == 0 {
		fmt.Fprintln(stdout, "No runs recorded.")
		return nil
	}
	for _, m := range manifests {
		fmt.Fprintf(stdout, "%s\tmethod=%s\talpha=%.4f\tstarted=%s\n",
			m.RunID, m.Method, m.Alpha, m.StartedAt.Format("2006-01-02T15:04:05"))
	}
	return nil
}

func runRunsShow(stdout io.Writer, storeDir, runID string) error {
	store, closeStore, err := openManifestStore(storeDir)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}
	defer closeStore()

	manifest, found, err := store.GetManifest(runID)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}
	if !found {
		return cli.Exit(fmt.Sprintf("no run recorded with ID %q", runID), ExitConfigError)
	}

	fmt.Fprintf(stdout, "Run ID:      %s\n", manifest.RunID)
	fmt.Fprintf(stdout, "Method:      %s\n", manifest.Method)
	fmt.Fprintf(stdout, "Alpha:       %.4f\n", manifest.Alpha)
	if manifest.GitCommit != "" {
		fmt.Fprintf(stdout, "Git commit:  %s\n", manifest.GitCommit)
	}
	if manifest.GitBranch != "" {
		fmt.Fprintf(stdout, "Git branch:  %s\n", manifest.GitBranch)
	}
	fmt.Fprintf(stdout, "Started at:  %s\n", manifest.StartedAt.Format("2006-01-02T15:04:05"))
	if !manifest.FinishedAt.IsZero() {
		fmt.Fprintf(stdout, "Finished at: %s\n", manifest.FinishedAt.Format("2006-01-02T15:04:05"))
	}
	return nil
}
