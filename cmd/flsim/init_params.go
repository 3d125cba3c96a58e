package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-fl/federated"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
	"github.com/YuminosukeSato/scigo-fl/sklearn/linear_model"
)

const modelType = "LogisticRegression"

func (a *app) newInitParamsCmd() *cobra.Command {
	var (
		outPath string
		gobPath string
	)

	cmd := &cobra.Command{
		Use:   "init-params",
		Short: "Write the zero seed parameters of the classifier",
		Long: `Seed a logistic regression with zero coefficients (model.n_classes x
model.n_features), zero intercepts when model.fit_intercept is set and the
classes 0..n_classes-1, then write the parameters as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			lr := linear_model.NewLogisticRegression(
				linear_model.WithLogisticFitIntercept(a.cfg.Model.FitIntercept),
			)
			if err := federated.SetInitialParams(lr, a.cfg.InitConfig()); err != nil {
				return err
			}
			params, err := federated.GetModelParameters(lr)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				if err := ensureDir(parentDir(outPath)); err != nil {
					return err
				}
				f, err := os.Create(outPath)
				if err != nil {
					return errors.Wrapf(err, "failed to create %s", outPath)
				}
				defer func() {
					if cerr := f.Close(); err == nil && cerr != nil {
						err = errors.Wrap(cerr, "failed to close output")
					}
				}()
				w = f
			}
			if err := params.EncodeJSON(w, modelType); err != nil {
				return err
			}

			if gobPath != "" {
				if err := params.SaveParameters(gobPath, modelType); err != nil {
					return err
				}
			}

			rows, cols := params.Shape()
			a.logger.Info("initial parameters written",
				log.OperationKey, log.OperationInitParams,
				log.ClassesKey, rows,
				log.FeaturesKey, cols,
				log.ChecksumKey, params.Hash(),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "JSON output file, - for stdout")
	cmd.Flags().StringVar(&gobPath, "gob", "", "Also write a gob checkpoint to this path")
	return cmd
}
