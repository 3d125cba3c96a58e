package federated

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// InitConfig sizes the zero parameters written before any local training.
type InitConfig struct {
	NClasses  int `yaml:"n_classes"`
	NFeatures int `yaml:"n_features"`
}

// DefaultInitConfig returns the sizes of the disease dataset:
// 41 diagnoses and 128 symptom features.
func DefaultInitConfig() InitConfig {
	return InitConfig{NClasses: 41, NFeatures: 128}
}

// Validate checks that there are at least 2 classes and a positive number
// of features.
func (c InitConfig) Validate() error {
	if c.NClasses < 2 {
		return errors.NewValidationError("n_classes", "must be at least 2", c.NClasses)
	}
	if c.NFeatures <= 0 {
		return errors.NewValidationError("n_features", "must be positive", c.NFeatures)
	}
	return nil
}

// InitialParameters returns zero coefficients (NClasses × NFeatures),
// zero intercepts when fitIntercept is set, and classes 0..NClasses-1.
func InitialParameters(cfg InitConfig, fitIntercept bool) (Parameters, error) {
	if err := cfg.Validate(); err != nil {
		return Parameters{}, err
	}

	p := Parameters{
		Coefficients: mat.NewDense(cfg.NClasses, cfg.NFeatures, nil),
		Classes:      make([]int, cfg.NClasses),
	}
	for i := range p.Classes {
		p.Classes[i] = i
	}
	if fitIntercept {
		p.Intercept = mat.NewVecDense(cfg.NClasses, nil)
	}
	return p, nil
}

// SetInitialParams seeds m with zero parameters so that it can predict and
// report parameters before it has seen any data.
func SetInitialParams(m Model, cfg InitConfig) error {
	p, err := InitialParameters(cfg, m.FitIntercept())
	if err != nil {
		return err
	}
	if err := p.ApplyTo(m); err != nil {
		return errors.Wrap(err, "failed to seed initial parameters")
	}

	log.GetLoggerWithName("federated").Debug("initial parameters set",
		log.OperationKey, log.OperationInitParams,
		log.ModelNameKey, modelName(m),
		log.ClassesKey, cfg.NClasses,
		log.FeaturesKey, cfg.NFeatures,
	)
	return nil
}
