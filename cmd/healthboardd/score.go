package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/score"
)

// metricFlags binds the four daily averages as command flags.
type metricFlags struct {
	steps     float64
	heartRate float64
	sleep     float64
	water     float64
}

func (f *metricFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&f.steps, "steps", 0, "Average daily step count")
	flags.Float64Var(&f.heartRate, "heart-rate", 0, "Average resting heart rate (bpm)")
	flags.Float64Var(&f.sleep, "sleep", 0, "Average sleep (hours)")
	flags.Float64Var(&f.water, "water", 0, "Average water intake (liters)")
}

func (f *metricFlags) metrics() (score.Metrics, error) {
	m := score.Metrics{
		AvgSteps:     f.steps,
		AvgHeartRate: f.heartRate,
		AvgSleep:     f.sleep,
		AvgWater:     f.water,
	}
	if err := score.Validate(m); err != nil {
		return score.Metrics{}, err
	}
	return m, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newScoreCmd() *cobra.Command {
	f := &metricFlags{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the wellness score for a set of metrics and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.metrics()
			if err != nil {
				return err
			}
			return printJSON(score.Compute(m))
		},
		Example: "  healthboardd score --steps 9500 --heart-rate 68 --sleep 7.5 --water 2.2",
	}
	f.register(cmd)
	return cmd
}

func newActionsCmd() *cobra.Command {
	f := &metricFlags{}

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Classify metrics into action items and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.metrics()
			if err != nil {
				return err
			}
			return printJSON(actions.Classify(m))
		},
		Example: "  healthboardd actions --steps 3000 --heart-rate 92 --sleep 5 --water 1",
	}
	f.register(cmd)
	return cmd
}
