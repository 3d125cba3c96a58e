// Package scigofl provides the client-side building blocks of a federated
// learning simulation for a linear classifier, written for Go services that
// want a scikit-learn-like API.
//
// A participant holds a logistic regression whose parameters (coefficient
// matrix, intercept vector and class labels) are exchanged with a
// coordinator. scigo-fl covers everything on the participant's side of that
// exchange except the protocol itself.
//
// # Features
//
// - Parameter exchange: extract, inject and seed linear model parameters
// - Data splitting: unseeded shuffle and balanced contiguous partitions
// - Wire format: checksummed JSON and gob checkpoints
// - Structured errors and zerolog-backed logging
//
// # Installation
//
//	go get github.com/YuminosukeSato/scigo-fl
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigo-fl/federated"
//	    "github.com/YuminosukeSato/scigo-fl/sklearn/linear_model"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 2, []float64{0, 0, 0, 1, 1, 0, 3, 3, 3, 4, 4, 3})
//	    y := mat.NewVecDense(6, []float64{0, 0, 0, 1, 1, 1})
//
//	    // Split the data across two participants
//	    parts, err := federated.Partition(X, y, 2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Every participant starts from the same zero parameters
//	    lr := linear_model.NewLogisticRegression(linear_model.WithLRWarmStart(true))
//	    if err := federated.SetInitialParams(lr, federated.InitConfig{NClasses: 2, NFeatures: 2}); err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := lr.Fit(parts[0].X, parts[0].Labels()); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Send the local result to the coordinator
//	    params, err := federated.GetModelParameters(lr)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("arrays:", params.Len(), "hash:", params.Hash())
//	}
//
// # Packages
//
//   - federated: parameter helpers, shuffle, partition, dataset loading, codec
//   - sklearn/linear_model: LogisticRegression with injectable parameters
//   - dataset: named-column tables and the CSV preparer
//   - preprocessing: LabelEncoder
//   - metrics: Accuracy, LogLoss
//   - visualize: partition charts
//   - config: YAML configuration of the flsim command
//   - core/model: estimator interfaces, state management, weight wire format
//   - core/parallel: balanced ranges and row-parallel execution
//   - pkg/errors, pkg/log: error types and logging
//
// The flsim command under cmd/flsim runs a partition/seed/local-fit round on
// the disease-classification dataset.
//
// # License
//
// scigo-fl is released under the MIT License.
package scigofl
