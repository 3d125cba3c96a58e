package log

// Attribute keys follow a hierarchical naming convention ("model.name",
// "data.samples") so that log records can be filtered by prefix.

// Model and operation context.
const (
	// ModelNameKey identifies the type of model, e.g. "LogisticRegression".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey     = "data.samples"
	TestSamplesKey = "data.test_samples"
	FeaturesKey    = "data.features"
	ClassesKey     = "data.classes"
)

// Metrics.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	LossKey       = "metrics.loss"
	IterationKey  = "training.iteration"
)

// Federated simulation.
const (
	// PartitionKey is the index of a partition within a partition list.
	PartitionKey = "fl.partition"

	// PartitionsKey is the requested number of partitions.
	PartitionsKey = "fl.partitions"

	// ParticipantKey identifies a simulated participant.
	ParticipantKey = "fl.participant"

	// FitInterceptKey records whether parameters carry an intercept.
	FitInterceptKey = "fl.fit_intercept"

	// ChecksumKey is the sha256 digest of a parameter payload.
	ChecksumKey = "fl.checksum"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit        = "fit"
	OperationPredict    = "predict"
	OperationScore      = "score"
	OperationShuffle    = "shuffle"
	OperationPartition  = "partition"
	OperationGetParams  = "get_parameters"
	OperationSetParams  = "set_parameters"
	OperationInitParams = "init_parameters"
	OperationLoad       = "load_dataset"

	PhaseTraining      = "training"
	PhaseEvaluation    = "evaluation"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
)
