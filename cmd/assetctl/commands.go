package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/assettrack/internal/config"
	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/importer"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/internal/storage/sqlite"
	"github.com/mmynk/assettrack/pkg/logging"
)

var commands = []subcommands.Command{
	&importCmd{},
	&exportCmd{},
	&revalueCmd{},
	&summaryCmd{},
}

// dbFlags are shared by every command.
type dbFlags struct {
	envFile string
	dbPath  string
	verbose bool
}

func (d *dbFlags) set(f *flag.FlagSet) {
	f.StringVar(&d.envFile, "env", "", "optional .env file to read configuration from")
	f.StringVar(&d.dbPath, "db", "", "database path (default DB_PATH or ./data/assets.db)")
	f.BoolVar(&d.verbose, "v", false, "log progress to stderr")
}

// open loads configuration and opens the store behind a registry.
func (d *dbFlags) open() (*config.Config, *sqlite.SQLiteStore, *registry.Registry, error) {
	cfg, err := config.Load(d.envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if d.dbPath != "" {
		cfg.Storage.DBPath = d.dbPath
	}
	level := "warn"
	if d.verbose {
		level = "info"
	}
	if err := logging.Setup(level); err != nil {
		return nil, nil, nil, err
	}

	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, registry.New(store, registry.WithCurrency(cfg.Valuation.Currency)), nil
}

func parseDateFlag(value string, fallback date.Date) (date.Date, error) {
	if value == "" {
		return fallback, nil
	}
	return date.Parse(value)
}

// importCmd implements the "import" command.
type importCmd struct {
	dbFlags
	on string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "reconciles the registry with a CSV file" }
func (*importCmd) Usage() string {
	return `import [-db path] [-on YYYY-MM-DD] <file.csv|->

Creates or updates one asset per row, keyed by asset_number. Blank cells leave
existing values alone. Each row commits on its own; failed rows are listed and
do not stop the import.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.on, "on", "", "import date used for valuation and new allocations (default today)")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import expects exactly one CSV file")
		return subcommands.ExitUsageError
	}

	_, store, reg, err := c.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	importDate, err := parseDateFlag(c.on, reg.Today())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -on: %v\n", err)
		return subcommands.ExitUsageError
	}

	var in io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	rows, err := importer.ParseCSV(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := importer.New(store).ImportBatch(ctx, rows, importDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: import interrupted: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
	for _, e := range report.Failed {
		fmt.Fprintf(os.Stderr, "error: %v\n", e)
	}
	fmt.Printf("created %d, updated %d, errors %d\n", report.Created, report.Updated, report.Errors)
	if report.Errors > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// exportCmd implements the "export" command.
type exportCmd struct {
	dbFlags
	out       string
	allocated bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "writes the registry as CSV" }
func (*exportCmd) Usage() string {
	return `export [-db path] [-o file.csv] [-allocated]

Writes every asset in the fixed export column order, sorted by asset number.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.out, "o", "", "output file (default stdout)")
	f.BoolVar(&c.allocated, "allocated", false, "only export assets currently allocated")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, store, _, err := c.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	var out io.Writer = os.Stdout
	if c.out != "" {
		file, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}

	var filter models.AssetFilter
	if c.allocated {
		filter.Allocated = &c.allocated
	}
	n, err := importer.New(store).Export(ctx, out, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "%d assets exported\n", n)
	return subcommands.ExitSuccess
}

// revalueCmd implements the "revalue" command.
type revalueCmd struct {
	dbFlags
	asOf string
}

func (*revalueCmd) Name() string     { return "revalue" }
func (*revalueCmd) Synopsis() string { return "recomputes depreciation for every asset" }
func (*revalueCmd) Usage() string {
	return `revalue [-db path] [-as-of YYYY-MM-DD]

Recomputes depreciation date and current value of every asset as of the given
date and saves the ones that changed.
`
}

func (c *revalueCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.asOf, "as-of", "", "reference date (default today)")
}

func (c *revalueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, store, reg, err := c.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	asOf, err := parseDateFlag(c.asOf, reg.Today())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -as-of: %v\n", err)
		return subcommands.ExitUsageError
	}
	changed, err := reg.RevalueAll(ctx, asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%d assets revalued as of %s\n", changed, asOf)
	return subcommands.ExitSuccess
}

// summaryCmd implements the "summary" command.
type summaryCmd struct {
	dbFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "prints registry counts and value totals" }
func (*summaryCmd) Usage() string {
	return `summary [-db path]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, store, reg, err := c.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	s, err := reg.Summary(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Assets:          %d (%d allocated)\n", s.Assets, s.AllocatedAssets)
	fmt.Printf("Users:           %d\n", s.Users)
	fmt.Printf("Allocations:     %d\n", s.Allocations)
	fmt.Printf("Purchase value:  %s\n", s.PurchaseTotalText)
	fmt.Printf("Current value:   %s\n", s.CurrentTotalText)
	if len(s.ByType) > 0 {
		fmt.Println()
		fmt.Printf("%-20s %10s %12s\n", "Type", "Allocated", "Unallocated")
		for _, tc := range s.ByType {
			fmt.Printf("%-20s %10d %12d\n", tc.AssetType, tc.Allocated, tc.Unallocated)
		}
	}
	if len(s.Recent) > 0 {
		fmt.Println()
		fmt.Println("Recent allocations:")
		for _, a := range s.Recent {
			status := "open"
			if a.ReturnDate != nil {
				status = "returned " + a.ReturnDate.String()
			}
			fmt.Printf("  %s  %-12s %-20s %s\n", a.AssignedDate, a.Asset.Name, a.User.Name, status)
		}
	}
	return subcommands.ExitSuccess
}
