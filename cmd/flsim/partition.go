package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-fl/federated"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
	"github.com/YuminosukeSato/scigo-fl/visualize"
)

func (a *app) newPartitionCmd() *cobra.Command {
	var (
		participants int
		plot         bool
	)

	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Split the training set across participants and report the split",
		Long: `Load the training set, optionally shuffle it, split it into contiguous
partitions and print the rows and classes held by each participant.

With --plot, bar charts of the split are written to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("participants") {
				a.cfg.Simulation.Participants = participants
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ds, parts, err := a.loadPartitions()
			if err != nil {
				return err
			}
			counts, err := visualize.ClassCounts(parts, a.cfg.Model.NClasses)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "train rows: %d, test rows: %d, participants: %d\n",
				ds.Train.Rows(), ds.Test.Rows(), len(parts))
			for i, part := range parts {
				classes := 0
				for _, n := range counts[i] {
					if n > 0 {
						classes++
					}
				}
				fmt.Fprintf(out, "P%-3d rows=%-6d classes=%d\n", i, part.Rows(), classes)
			}

			if plot {
				return a.writeCharts(parts, counts)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&participants, "participants", "n", 0, "Override simulation.participants")
	cmd.Flags().BoolVar(&plot, "plot", false, "Write partition charts as PNG to output.dir")
	return cmd
}

// loadPartitions loads the dataset and splits its training part.
func (a *app) loadPartitions() (federated.Dataset, federated.XYList, error) {
	ds, err := federated.LoadDataset(a.cfg.Preparer(), a.cfg.LabelColumns())
	if err != nil {
		return federated.Dataset{}, nil, err
	}

	train := ds.Train
	if a.cfg.Simulation.Shuffle {
		if seed := a.cfg.Simulation.Seed; seed != 0 {
			train, err = federated.ShuffleRand(train.X, train.Y, rand.New(rand.NewSource(seed)))
		} else {
			train, err = federated.Shuffle(train.X, train.Y)
		}
		if err != nil {
			return federated.Dataset{}, nil, err
		}
	}

	parts, err := federated.Partition(train.X, train.Y, a.cfg.Simulation.Participants)
	if err != nil {
		return federated.Dataset{}, nil, err
	}
	return ds, parts, nil
}

func (a *app) writeCharts(parts federated.XYList, counts [][]float64) error {
	start := time.Now()
	out := a.cfg.Output

	sizes, err := visualize.PartitionSizesChart(parts.Sizes(), "rows per participant")
	if err != nil {
		return err
	}
	sizesPath := filepath.Join(out.Dir, "partition_sizes.png")
	if err := ensureDir(out.Dir); err != nil {
		return err
	}
	if err := visualize.SavePNG(sizes, sizesPath, out.PlotWidth, out.PlotHeight); err != nil {
		return err
	}

	coverage, err := visualize.ClassCoverageChart(counts, "classes per participant")
	if err != nil {
		return err
	}
	coveragePath := filepath.Join(out.Dir, "class_coverage.png")
	if err := visualize.SavePNG(coverage, coveragePath, out.PlotWidth, out.PlotHeight); err != nil {
		return err
	}

	a.logger.Info("charts written",
		"files", []string{sizesPath, coveragePath},
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}
