package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-fl/federated"
	"github.com/YuminosukeSato/scigo-fl/metrics"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
	"github.com/YuminosukeSato/scigo-fl/sklearn/linear_model"
)

// participantResult is what one simulated participant reports.
type participantResult struct {
	Index    int
	Rows     int
	Accuracy float64
	LogLoss  float64
	Checksum string
}

func (a *app) newSimulateCmd() *cobra.Command {
	var (
		participants int
		saveParams   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one local training step per participant",
		Long: `Partition the training set, seed every participant with the same zero
parameters, fit each participant locally with warm start, then send the
parameters through the JSON wire format and evaluate the received model on
the test set.

Empty partitions are skipped. Aggregating the results is left to the
coordinator and is not done here.`,
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
			if _, cols := ds.Train.X.Dims(); cols != a.cfg.Model.NFeatures {
				return errors.NewValidationError("model.n_features", "does not match the dataset", cols)
			}

			seed, err := federated.InitialParameters(a.cfg.InitConfig(), a.cfg.Model.FitIntercept)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %-7s %-9s %-9s %s\n", "part", "rows", "accuracy", "logloss", "checksum")
			for i, part := range parts {
				if part.Rows() == 0 {
					a.logger.Warn("skipping empty partition", log.PartitionKey, i)
					continue
				}

				res, received, err := a.runParticipant(i, part, seed, ds.Test)
				if err != nil {
					return errors.Wrapf(err, "participant %d", i)
				}
				fmt.Fprintf(out, "P%-4d %-7d %-9.4f %-9.4f %s\n",
					res.Index, res.Rows, res.Accuracy, res.LogLoss, res.Checksum[:12])

				if saveParams {
					if err := a.saveParticipant(i, received); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&participants, "participants", "n", 0, "Override simulation.participants")
	cmd.Flags().BoolVar(&saveParams, "save", false, "Write each participant's parameters as a gob checkpoint to output.dir")
	return cmd
}

// newLocalModel builds a participant's classifier from the config.
func (a *app) newLocalModel() *linear_model.LogisticRegression {
	return linear_model.NewLogisticRegression(
		linear_model.WithLogisticFitIntercept(a.cfg.Model.FitIntercept),
		linear_model.WithLRMaxIter(a.cfg.Model.MaxIter),
		linear_model.WithLRC(a.cfg.Model.C),
		linear_model.WithLRWarmStart(true),
	)
}

// trainLocal seeds a participant model, fits it on part and returns its parameters.
func (a *app) trainLocal(part federated.XY, seed federated.Parameters) (federated.Parameters, error) {
	lr, err := federated.SetModelParams(a.newLocalModel(), seed)
	if err != nil {
		return federated.Parameters{}, err
	}
	if err := lr.Fit(part.X, part.Labels()); err != nil {
		return federated.Parameters{}, err
	}
	return federated.GetModelParameters(lr)
}

// runParticipant trains locally, ships the parameters through JSON and
// evaluates the model rebuilt from the received payload.
func (a *app) runParticipant(i int, part federated.XY, seed federated.Parameters, test federated.XY) (participantResult, federated.Parameters, error) {
	start := time.Now()
	logger := a.logger.With(log.ParticipantKey, i)

	params, err := a.trainLocal(part, seed)
	if err != nil {
		return participantResult{}, federated.Parameters{}, err
	}

	var wire bytes.Buffer
	if err := params.EncodeJSON(&wire, modelType); err != nil {
		return participantResult{}, federated.Parameters{}, err
	}
	payload := wire.Len()
	received, err := federated.DecodeJSON(&wire)
	if err != nil {
		return participantResult{}, federated.Parameters{}, err
	}

	receiver, err := federated.SetModelParams(a.newLocalModel(), received)
	if err != nil {
		return participantResult{}, federated.Parameters{}, err
	}
	res := participantResult{Index: i, Rows: part.Rows(), Checksum: received.Hash()}

	if test.Rows() > 0 {
		if res.Accuracy, err = receiver.Score(test.X, test.Labels()); err != nil {
			return participantResult{}, federated.Parameters{}, err
		}
		proba, err := receiver.PredictProba(test.X)
		if err != nil {
			return participantResult{}, federated.Parameters{}, err
		}
		if res.LogLoss, err = metrics.LogLoss(test.Labels(), proba, receiver.Classes()); err != nil {
			return participantResult{}, federated.Parameters{}, err
		}
	}

	logger.Info("participant round finished",
		log.SamplesKey, res.Rows,
		log.AccuracyKey, res.Accuracy,
		log.LossKey, res.LogLoss,
		log.ChecksumKey, res.Checksum,
		"payload_bytes", payload,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, received, nil
}

func (a *app) saveParticipant(i int, params federated.Parameters) error {
	if err := ensureDir(a.cfg.Output.Dir); err != nil {
		return err
	}
	path := filepath.Join(a.cfg.Output.Dir, fmt.Sprintf("participant_%03d.gob", i))
	return params.SaveParameters(path, modelType)
}
