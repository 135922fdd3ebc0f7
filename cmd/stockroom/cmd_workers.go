package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stockroom schedule:list
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the background jobs and their schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		rt, err := boot(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		sched, err := rt.jobs()
		if err != nil {
			return err
		}
		for _, j := range sched.List() {
			fmt.Fprintln(cmd.OutOrStdout(), "  •", j)
		}
		return nil
	},
}

// stockroom schedule:run <job>
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run <job>",
	Short: "Run one background job now (" + jobWarm + ", " + jobPrune + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		rt, err := boot(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		sched, err := rt.jobs()
		if err != nil {
			return err
		}
		sched.Start(ctx)
		return sched.RunNow(args[0])
	},
}
