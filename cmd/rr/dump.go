package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	rrtrace "github.com/BioTurboNick/rr/pkg/trace"
)

func init() {
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump [trace]",
	Short: "Print a summary of a trace's contents",
	Long:  `Reads the events, tasks and mmaps substreams of a trace and prints their record counts plus the recorded header.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  cmdFunc(dump),
}

func dump(_ context.Context, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	dir, err := rrtrace.ResolveTraceDir(path)
	if err != nil {
		return err
	}

	r, err := rrtrace.OpenReader(dir)
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Printf("trace: %s\n", r.Dir())
	fmt.Printf("uuid: %s\n", r.Header.UUID)
	fmt.Printf("bind_to_cpu: %v\n", r.Header.BindToCPU)
	fmt.Printf("has_cpuid_faulting: %v\n", r.Header.HasCPUIDFaulting)

	var frames, tasks, mmaps int
	for {
		if _, err := r.ReadFrame(); err != nil {
			break
		}
		frames++
	}
	for {
		if _, err := r.ReadTaskEvent(); err != nil {
			break
		}
		tasks++
	}
	for {
		if _, err := r.ReadMappedRegion(); err != nil {
			break
		}
		mmaps++
	}
	fmt.Printf("events: %d frames\n", frames)
	fmt.Printf("tasks: %d task events\n", tasks)
	fmt.Printf("mmaps: %d mapped regions\n", mmaps)
	return nil
}
