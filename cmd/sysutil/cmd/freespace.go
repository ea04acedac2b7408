package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Sukhavati-Labs/go-sysutil/config"
	"github.com/Sukhavati-Labs/go-sysutil/freespace"
	"github.com/Sukhavati-Labs/go-sysutil/journal"
	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errNoJournal = errors.New("journal directory not set, use --journal or [journal] dir")

type freespaceOptions struct {
	volume   string
	tempFile string
	probe    string
	sparse   bool
	journal  string
}

func newFreespaceCmd(root *rootOptions) *cobra.Command {
	opts := &freespaceOptions{}
	c := &cobra.Command{
		Use:   "freespace",
		Short: "Demonstrate logical file length versus physical disk usage",
		Long: `Repeatedly asks for a file length, creates a temporary file of that
length without writing its contents, writes one block in its middle and
reports the volume's free space after every step. Enter 0 to quit.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupExitCode: strconv.Itoa(freespace.ExitOther)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreespace(cmd, root.cfg, opts)
		},
	}

	f := c.Flags()
	f.StringVar(&opts.volume, "volume", config.DefaultVolume, "directory on the volume under test")
	f.StringVar(&opts.tempFile, "temp-file", sparse.DefaultFileName, "name of the temporary file")
	f.StringVar(&opts.probe, "probe", config.DefaultProbe, "free space probe: "+fmt.Sprint(space.Backends()))
	f.BoolVar(&opts.sparse, "sparse", false, "mark the temporary file sparse where the platform requires it")
	f.StringVar(&opts.journal, "journal", "", "record every iteration in this journal database")

	c.AddCommand(newHistoryCmd(root))
	return c
}

func (o *freespaceOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("volume") {
		cfg.Freespace.Volume = o.volume
	}
	if flags.Changed("temp-file") {
		cfg.Freespace.TempFile = o.tempFile
	}
	if flags.Changed("probe") {
		cfg.Freespace.Probe = o.probe
	}
	if flags.Changed("sparse") {
		cfg.Freespace.Sparse = o.sparse
	}
	if flags.Changed("journal") {
		cfg.Journal.Dir = o.journal
	}
}

func runFreespace(cmd *cobra.Command, cfg *config.Config, opts *freespaceOptions) error {
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return &exitError{code: freespace.ExitOther, err: err}
	}

	probe, err := space.NewProbe(cfg.Freespace.Probe, cfg.Freespace.Volume)
	if err != nil {
		return &exitError{code: freespace.ExitOther, err: err}
	}
	allocator := sparse.NewAllocator(sparse.OSFS{Dir: cfg.Freespace.Volume}, cfg.Freespace.TempFile, cfg.Freespace.Sparse)
	driver := freespace.NewDriver(probe, allocator, cmd.InOrStdin(), cmd.OutOrStdout())

	if cfg.Journal.Dir != "" {
		j, err := journal.Open(cfg.Journal.Dir)
		if err != nil {
			return &exitError{code: freespace.ExitOther, err: err}
		}
		defer j.Close()
		driver.SetRecorder(j)
	}

	logging.CPrint(logging.INFO, "free space demonstration started", logging.LogFormat{
		"volume":  cfg.Freespace.Volume,
		"file":    cfg.Freespace.TempFile,
		"probe":   cfg.Freespace.Probe,
		"journal": cfg.Journal.Dir,
	})
	if err := driver.Run(); err != nil {
		return &exitError{code: freespace.ExitCode(err), err: err}
	}
	return nil
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		dir   string
		limit int
	)
	c := &cobra.Command{
		Use:         "history",
		Short:       "List iterations recorded in the measurement journal",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupExitCode: strconv.Itoa(freespace.ExitOther)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("journal") {
				cfg.Journal.Dir = dir
			}
			if cmd.Flags().Changed("limit") {
				cfg.Journal.Limit = limit
			}
			if cfg.Journal.Dir == "" {
				return &exitError{code: freespace.ExitOther, err: errNoJournal}
			}
			j, err := journal.Open(cfg.Journal.Dir)
			if err != nil {
				return &exitError{code: freespace.ExitOther, err: err}
			}
			defer j.Close()

			records, err := j.List(cfg.Journal.Limit)
			if err != nil {
				return &exitError{code: freespace.ExitOther, err: err}
			}
			printHistory(cmd, records)
			return nil
		},
	}
	c.Flags().StringVar(&dir, "journal", "", "journal database directory")
	c.Flags().IntVar(&limit, "limit", config.DefaultListLimit, "number of most recent records to list, 0 for all")
	return c
}

func printHistory(cmd *cobra.Command, records []*journal.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%6s  %-25s  %20s  %20s  %20s  %20s\n",
		"SEQ", "TIME", "LENGTH", "OFFSET", "EXTEND CONSUMED", "ALLOCATED")
	for _, r := range records {
		fmt.Fprintf(out, "%6d  %-25s  %20d  %20d  %20d  %20d\n",
			r.Seq, r.Time.Format(time.RFC3339), r.Length, r.Offset, r.ExtendConsumed(), r.Allocated[journal.NumStages-1])
	}
}
