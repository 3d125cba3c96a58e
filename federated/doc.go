/*
Package federated provides the client-side helpers of a federated-learning
simulation built on a linear classifier.

The helpers move parameters in and out of a model, seed a model with zero
parameters before any local training, load the disease-classification
dataset and split a dataset across simulated participants:

	params, err := federated.GetModelParameters(lr)    // send to the coordinator
	lr, err = federated.SetModelParams(lr, aggregated) // receive from the coordinator

	err = federated.SetInitialParams(lr, federated.DefaultInitConfig())

	parts, err := federated.Partition(X, y, 10)

The coordination protocol, the aggregation rule and the local training loop
are left to the caller. Any model satisfying Model can be used;
linear_model.LogisticRegression is the concrete implementation in this module.
*/
package federated
