package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/cachesim/report"
	"github.com/sarchlab/cachesim/timing/config"
)

// levelFlags holds the per-level options that are not part of the level
// config itself.
type levelFlags struct {
	wordAddrs     []string
	trace         string
	writeMissFile string
}

type options struct {
	hierarchy *config.HierarchyConfig
	l1, l2    levelFlags

	configPath string
	dbPath     string
	crossCheck bool
	noColor    bool
	verbose    bool
	tableWidth int
}

func newRootCmd() *cobra.Command {
	opts := &options{hierarchy: config.DefaultHierarchyConfig()}

	cmd := &cobra.Command{
		Use:   "cachesim [flags] [word-address...]",
		Short: "Simulate a set-associative cache over a trace of word addresses.",
		Long: `cachesim replays word addresses through an L1 cache, and optionally an ` +
			`L2 cache fed with the L1 misses. For each level it prints every ` +
			`reference with its tag, index, offset, and hit/miss status, the final ` +
			`cache contents, and the total latency.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	addLevelFlags(flags, "l1", opts.hierarchy.L1, &opts.l1)
	addLevelFlags(flags, "l2", opts.hierarchy.L2, &opts.l2)
	flags.BoolVar(&opts.hierarchy.TwoLevel, "two-level", false,
		"simulate a two-level cache hierarchy")

	flags.StringVar(&opts.configPath, "config", "",
		"JSON cache configuration file; explicit flags override it")
	flags.StringVar(&opts.dbPath, "db", os.Getenv("CACHESIM_DB"),
		"record results into this SQLite database (env CACHESIM_DB)")
	flags.BoolVar(&opts.crossCheck, "crosscheck", false,
		"verify LRU levels against akita's cache directory")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	flags.IntVar(&opts.tableWidth, "table-width", defaultTableWidth(),
		"character width of printed tables")

	return cmd
}

func addLevelFlags(flags *pflag.FlagSet, level string, c *config.LevelConfig, lf *levelFlags) {
	flags.IntVar(&c.CacheSize, level+"-cache-size", c.CacheSize,
		"the size of the "+level+" cache in words")
	flags.Uint64Var(&c.HitLatency, level+"-hit-latency", c.HitLatency,
		"the access hit latency of "+level+" cache")
	flags.Uint64Var(&c.MissLatency, level+"-miss-latency", c.MissLatency,
		"the access miss latency of "+level+" cache")
	flags.IntVar(&c.NumBlocksPerSet, level+"-num-blocks-per-set", c.NumBlocksPerSet,
		"the number of blocks per set in "+level)
	flags.IntVar(&c.NumWordsPerBlock, level+"-num-words-per-block", c.NumWordsPerBlock,
		"the number of words per block in "+level)
	flags.IntVar(&c.NumAddrBits, level+"-num-addr-bits", c.NumAddrBits,
		"the number of bits in each given word address in "+level)
	flags.StringVar(&c.ReplacementPolicy, level+"-replacement-policy", c.ReplacementPolicy,
		"the "+level+" cache replacement policy (LRU or MRU)")
	flags.StringVar(&lf.writeMissFile, level+"-write-miss-file", "",
		"miss trace file for the next level of cache")

	if level == "l1" {
		flags.StringSliceVar(&lf.wordAddrs, "l1-word-addrs", nil,
			"one or more base-10 word addresses in l1")
		flags.StringVar(&lf.trace, "l1-word-addrs-trace", "",
			"base-10 word addresses trace file for l1")
	}
}

// overlayFlags copies the level fields whose flags were set explicitly from
// src to dst.
func overlayFlags(flags *pflag.FlagSet, level string, dst, src *config.LevelConfig) {
	set := func(name string, apply func()) {
		if flags.Changed(level + "-" + name) {
			apply()
		}
	}

	set("cache-size", func() { dst.CacheSize = src.CacheSize })
	set("hit-latency", func() { dst.HitLatency = src.HitLatency })
	set("miss-latency", func() { dst.MissLatency = src.MissLatency })
	set("num-blocks-per-set", func() { dst.NumBlocksPerSet = src.NumBlocksPerSet })
	set("num-words-per-block", func() { dst.NumWordsPerBlock = src.NumWordsPerBlock })
	set("num-addr-bits", func() { dst.NumAddrBits = src.NumAddrBits })
	set("replacement-policy", func() { dst.ReplacementPolicy = src.ReplacementPolicy })
}

func defaultTableWidth() int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > report.DefaultTableWidth {
		return cols
	}
	return report.DefaultTableWidth
}
