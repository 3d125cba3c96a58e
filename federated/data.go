package federated

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/core/parallel"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// XY is a feature matrix with its row-aligned label vector.
// An empty XY holds zero-value matrices.
type XY struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Rows returns the number of samples.
func (xy XY) Rows() int {
	if xy.Y == nil || xy.Y.IsEmpty() {
		return 0
	}
	return xy.Y.Len()
}

// Labels returns Y as an n × 1 matrix, the shape Fit and Score expect.
func (xy XY) Labels() mat.Matrix {
	if xy.Rows() == 0 {
		return &mat.Dense{}
	}
	return xy.Y
}

// Dataset is a train/test pair.
type Dataset struct {
	Train XY
	Test  XY
}

// XYList is an ordered list of partitions.
type XYList []XY

// Sizes returns the number of rows of each partition.
func (l XYList) Sizes() []int {
	sizes := make([]int, len(l))
	for i, xy := range l {
		sizes[i] = xy.Rows()
	}
	return sizes
}

// rows validates X and y and returns their shared row count.
func rows(op string, X *mat.Dense, y *mat.VecDense) (n, cols int, err error) {
	if X == nil || y == nil {
		return 0, 0, errors.NewValidationError("X, y", "must not be nil", nil)
	}
	if !X.IsEmpty() {
		n, cols = X.Dims()
	}
	yn := 0
	if !y.IsEmpty() {
		yn = y.Len()
	}
	if n != yn {
		return 0, 0, errors.NewDimensionError(op, n, yn, 0)
	}
	return n, cols, nil
}

// Shuffle returns copies of X and y with their rows permuted by one random
// permutation, so each label stays with its features. A fresh, unseeded
// random source is used on every call; use ShuffleRand for reproducible runs.
func Shuffle(X *mat.Dense, y *mat.VecDense) (XY, error) {
	return ShuffleRand(X, y, rand.New(rand.NewSource(rand.Int63())))
}

// ShuffleRand is Shuffle with an explicit random source.
func ShuffleRand(X *mat.Dense, y *mat.VecDense, rng *rand.Rand) (XY, error) {
	n, cols, err := rows("federated.Shuffle", X, y)
	if err != nil {
		return XY{}, err
	}
	if n == 0 {
		return XY{X: &mat.Dense{}, Y: &mat.VecDense{}}, nil
	}

	perm := rng.Perm(n)
	outX := mat.NewDense(n, cols, nil)
	outY := mat.NewVecDense(n, nil)
	for i, src := range perm {
		outX.SetRow(i, X.RawRowView(src))
		outY.SetVec(i, y.AtVec(src))
	}

	log.GetLoggerWithName("federated").Debug("dataset shuffled",
		log.OperationKey, log.OperationShuffle,
		log.SamplesKey, n,
		log.FeaturesKey, cols,
	)
	return XY{X: outX, Y: outY}, nil
}

// PartitionSizes returns the sizes Partition uses for n rows and k
// partitions: the first n%k partitions hold one extra row.
func PartitionSizes(n, k int) ([]int, error) {
	if k <= 0 {
		return nil, errors.NewValidationError("partitions", "must be positive", k)
	}
	if n < 0 {
		return nil, errors.NewValidationError("rows", "must not be negative", n)
	}
	bounds := parallel.Bounds(n, k)
	sizes := make([]int, k)
	for i, b := range bounds {
		sizes[i] = b.Len()
	}
	return sizes, nil
}

// Partition splits X and y into k contiguous, row-aligned partitions whose
// sizes differ by at most one. Rows keep their order.
//
// Partitions are views: they share storage with X and y. When k exceeds the
// number of rows the trailing partitions are empty and an
// EmptyPartitionWarning is emitted.
func Partition(X *mat.Dense, y *mat.VecDense, k int) (XYList, error) {
	n, cols, err := rows("federated.Partition", X, y)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, errors.NewValidationError("partitions", "must be positive", k)
	}
	if k > n {
		errors.Warn(errors.NewEmptyPartitionWarning(n, k))
	}

	parts := make(XYList, k)
	for i, b := range parallel.Bounds(n, k) {
		if b.Len() == 0 {
			parts[i] = XY{X: &mat.Dense{}, Y: &mat.VecDense{}}
			continue
		}
		parts[i] = XY{
			X: X.Slice(b.Start, b.End, 0, cols).(*mat.Dense),
			Y: y.SliceVec(b.Start, b.End).(*mat.VecDense),
		}
	}

	log.GetLoggerWithName("federated").Debug("dataset partitioned",
		log.OperationKey, log.OperationPartition,
		log.SamplesKey, n,
		log.PartitionsKey, k,
	)
	return parts, nil
}
