package main

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/mesisim/insts"
	"github.com/sarchlab/mesisim/simulation"
)

var (
	coreCount    int
	cacheSize    int
	memorySize   uint64
	inputPattern string

	consoleTrace bool
	csvTracePath string
	dbTracePath  string

	checkInvariants bool
	debugDump       bool

	monitorOn   bool
	monitorPort int
	openBrowser bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "mesisim",
	Short: "MesiSim simulates MESI cache coherence among cores that share " +
		"one memory.",
	Long: `MesiSim runs one instruction stream per core in lock-step ` +
		`rounds. Each core owns a small direct-mapped cache, and the MESI ` +
		`protocol keeps the caches and the shared memory coherent. ` +
		`Instruction files contain one "RD <address>" or ` +
		`"WR <address> <value>" per line.`,
	Run: runSimulation,
}

func init() {
	rootCmd.Flags().IntVar(&coreCount, "cores", 2,
		"number of cores to simulate")
	rootCmd.Flags().IntVar(&cacheSize, "cache-size", 2,
		"number of direct-mapped cache lines per core")
	rootCmd.Flags().Uint64Var(&memorySize, "memory-size", 24,
		"number of addressable bytes of shared memory")
	rootCmd.Flags().StringVar(&inputPattern, "input", "input_%d.txt",
		"instruction file name pattern, %d is replaced by the core id")

	rootCmd.Flags().BoolVar(&consoleTrace, "console", true,
		"print the trace to stdout")
	rootCmd.Flags().StringVar(&csvTracePath, "trace-csv", "",
		"record the trace into a CSV file at the given path")
	rootCmd.Flags().StringVar(&dbTracePath, "trace-db", "",
		"record the trace into an SQLite database at the given path")

	rootCmd.Flags().BoolVar(&checkInvariants, "check-invariants", false,
		"verify the MESI invariants at every round boundary")
	rootCmd.Flags().BoolVar(&debugDump, "debug", false,
		"dump memory and cache contents to stderr after every round")

	rootCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"serve the simulation state over HTTP while running")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port for the monitoring server, 0 picks a random port")
	rootCmd.Flags().BoolVar(&openBrowser, "open-browser", false,
		"open the monitoring page in a browser")
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func runSimulation(_ *cobra.Command, _ []string) {
	sources, files := openSources()

	sim := buildSimulation(sources)

	if monitorOn {
		url := sim.StartMonitor()
		if openBrowser {
			if err := browser.OpenURL(url); err != nil {
				log.Warnf("Cannot open browser: %s", err)
			}
		}
	}

	log.Infof("Simulation %s started", sim.ID())

	err := sim.Run()
	sim.Terminate()
	for _, f := range files {
		_ = f.Close()
	}

	if err != nil {
		log.Errorf("Simulation failed: %s", err)
		atexit.Exit(1)
	}

	log.Infof("Simulation %s completed", sim.ID())
	atexit.Exit(0)
}

func openSources() ([]insts.Source, []*insts.FileSource) {
	if coreCount <= 0 {
		log.Errorf("Core count must be positive, got %d", coreCount)
		atexit.Exit(1)
	}

	sources := make([]insts.Source, 0, coreCount)
	files := make([]*insts.FileSource, 0, coreCount)
	for i := 0; i < coreCount; i++ {
		path := fmt.Sprintf(inputPattern, i)
		log.Infof("Core %d reading from file: %s", i, path)

		source, err := insts.OpenFileSource(path)
		if err != nil {
			log.Errorf("Cannot open the instruction file: %s", err)
			atexit.Exit(1)
		}

		sources = append(sources, source)
		files = append(files, source)
	}

	return sources, files
}

func buildSimulation(sources []insts.Source) *simulation.Simulation {
	builder := simulation.MakeBuilder().
		WithCacheSize(cacheSize).
		WithMemorySize(memorySize).
		WithSources(sources...)

	if consoleTrace {
		builder = builder.WithConsoleTrace(os.Stdout)
	}

	if csvTracePath != "" {
		builder = builder.WithCSVTrace(csvTracePath)
	}

	if dbTracePath != "" {
		builder = builder.WithDBTrace(dbTracePath)
	}

	if checkInvariants {
		builder = builder.WithInvariantChecks()
	}

	if debugDump {
		builder = builder.WithDebugOutput(os.Stderr)
	}

	if monitorOn {
		builder = builder.WithMonitor().WithMonitorPort(monitorPort)
	}

	return builder.Build()
}
