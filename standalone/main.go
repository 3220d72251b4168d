// The standalone program drives randomized traffic through both translation
// engines and self-checks ordering, identity, and burst shape on the fly.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/conformance"
	"github.com/sarchlab/axibridge/datarecording"
	"github.com/sarchlab/axibridge/errslv"
	"github.com/sarchlab/axibridge/membridge"
	"github.com/sarchlab/axibridge/monitoring"
	"github.com/sarchlab/axibridge/sim"
	"github.com/sarchlab/axibridge/tracing"
)

var (
	numWrites      int
	numReads       int
	numMemRequests int
	maxOutstanding int
	seed           int64
	maxCycles      int
	tracePath      string
	monitorPort    int
)

var rootCmd = &cobra.Command{
	Use: "standalone",
	Short: "Run randomized traffic through the error responder and the " +
		"memory-to-bus adapter",
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

func main() {
	rootCmd.Flags().IntVar(&numWrites, "num-writes", 100,
		"number of write transactions for the error responder")
	rootCmd.Flags().IntVar(&numReads, "num-reads", 100,
		"number of read transactions for the error responder")
	rootCmd.Flags().IntVar(&numMemRequests, "num-mem-requests", 100,
		"number of memory requests for the adapter")
	rootCmd.Flags().IntVar(&maxOutstanding, "max-outstanding", 4,
		"outstanding-transaction bound for both engines")
	rootCmd.Flags().Int64Var(&seed, "seed", 1,
		"random seed for the traffic generators")
	rootCmd.Flags().IntVar(&maxCycles, "max-cycles", 1000000,
		"abort if the traffic does not drain within this many cycles")
	rootCmd.Flags().StringVar(&tracePath, "trace", "",
		"record all channel beats into this SQLite database")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"serve simulation status over HTTP on this port (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() {
	sim.UseSequentialIDGenerator()

	engine := sim.NewEngine()

	slave := errslv.MakeBuilder().
		WithEngine(engine).
		WithMaxTransactions(maxOutstanding).
		WithResp(axi.RespSlvErr).
		Build("ErrSlv")

	bridge := membridge.MakeBuilder().
		WithEngine(engine).
		WithMaxOutstanding(maxOutstanding).
		Build("Bridge")

	checker := conformance.NewChecker(bridge)
	engine.AcceptHook(checker)

	if tracePath != "" {
		recorder := datarecording.NewSQLiteWriter(tracePath)
		tracer := tracing.NewBusTracer(recorder)
		tracer.TraceErrSlv(slave)
		tracer.TraceBridge(bridge)
		engine.AcceptHook(tracer)
		defer recorder.Flush()
	}

	if monitorPort != 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(monitorPort)
		monitor.RegisterEngine(engine)
		for _, q := range slave.TrackingQueues() {
			monitor.RegisterQueue(q)
		}
		monitor.RegisterQueue(bridge.SelectorQueue())
		monitor.StartServer()
	}

	rng := rand.New(rand.NewSource(seed))
	slaveAgent := newErrSlvAgent(slave, numWrites, numReads, rng)
	bridgeAgent := newBridgeAgent(bridge, numMemRequests, rng)

	for !slaveAgent.done() || !bridgeAgent.done() {
		if engine.Cycle() >= uint64(maxCycles) {
			log.Panicf("traffic did not drain within %d cycles", maxCycles)
		}

		slaveAgent.drive()
		bridgeAgent.drive()
		engine.Step()
		slaveAgent.observe()
		bridgeAgent.observe()
	}

	if violations := checker.Violations(); len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, v)
		}
		log.Panic("traffic generator violated the requester contract")
	}

	fmt.Printf("completed %d writes, %d reads, %d memory requests in "+
		"%d cycles\n",
		numWrites, numReads, numMemRequests, engine.Cycle())
}
