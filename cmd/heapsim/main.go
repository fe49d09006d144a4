// Command heapsim replays allocation scripts against the device heap on a
// host machine and prints the heap state after every step.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pavanmanishd/memheap"
	"github.com/pavanmanishd/memheap/internal/config"
	"github.com/pavanmanishd/memheap/internal/log"
	"github.com/pavanmanishd/memheap/internal/scenario"
	"github.com/pavanmanishd/memheap/platform"
)

func main() {
	configPath := flag.String("config", "", "path to heapsim.yml (default ./conf/heapsim.yml or ./heapsim.yml)")
	scriptPath := flag.String("script", "", "allocation script to replay")
	flag.Parse()

	config.Init(*configPath)
	log.Init()

	if *scriptPath == "" {
		log.Logger.Error("missing -script")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*scriptPath, os.Stdout); err != nil {
		log.HandleError(err)
		os.Exit(1)
	}
}

func run(scriptPath string, out io.Writer) error {
	script, err := scenario.LoadFile(scriptPath)
	if err != nil {
		return err
	}

	hc := config.HeapConfig()
	var region memheap.Region
	if hc.Mmap {
		m, err := platform.Map(hc.Base, hc.Size)
		if err != nil {
			return err
		}
		defer m.Close()
		region = m.Region()
	} else {
		region = memheap.HostRegion(hc.Size)
		region.Start = hc.Base
	}

	h, err := memheap.New(region, memheap.Options{
		Logger:      log.Logger,
		TraceMemory: hc.Trace,
		OnFatal:     halt,
	})
	if err != nil {
		return err
	}
	log.Logger.Info("heap ready", "start", h.Start(), "limit", h.Limit(), "free", h.FreeBytes())

	report, err := scenario.Run(h, script)
	if report != nil {
		printReport(out, report)
	}
	return err
}

// halt stops the simulated device.
func halt(e *memheap.FatalError) {
	log.Logger.Fatal("heap fatal error", fatalFields(e)...)
}

func fatalFields(e *memheap.FatalError) []any {
	return []any{"kind", e.Kind, "file", e.File, "line", e.Line, "err", e.Err}
}

func printReport(out io.Writer, r *scenario.Report) {
	fmt.Fprintf(out, "script: %s\n", r.Script)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\top\tname\tsize\taddr\tused\tfree\tdepth\tfingerprint")
	for _, res := range r.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\t%d\t%d\t%08x\n",
			res.Index, res.Step.Op, res.Step.Name, res.Step.Size, res.Addr,
			res.Used, res.Free, res.Depth, res.Fingerprint)
	}
	w.Flush()

	m := r.Metrics
	fmt.Fprintf(out, "used %d free %d capacity %d (%.1f%%)\n", m.UsedBytes, m.FreeBytes, m.Capacity, m.Utilization*100)
	fmt.Fprintf(out, "allocations %d releases %d arenas %d freelist %d chunks / %d bytes\n",
		m.MallocCalls, m.FreeCalls, m.ArenaDepth, m.FreeChunks, m.FreelistBytes)
}
