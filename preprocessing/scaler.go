package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/core/model"
	"github.com/neurodecode/gomvpa/core/parallel"
	"github.com/neurodecode/gomvpa/pkg/errors"
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	// 平均を計算
	for j := 0; j < c; j++ {
		if s.WithMean {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		} else {
			s.Mean[j] = 0.0
		}
	}

	// 標準偏差を計算
	for j := 0; j < c; j++ {
		if !s.WithStd {
			s.Scale[j] = 1.0
			continue
		}
		sumSquares := 0.0
		for i := 0; i < r; i++ {
			diff := X.At(i, j) - s.Mean[j]
			sumSquares += diff * diff
		}
		variance := sumSquares / float64(r)
		s.Scale[j] = math.Sqrt(variance)

		// 標準偏差が0に近い場合は1に設定（ゼロ除算を避ける）
		if math.Abs(s.Scale[j]) < 1e-8 {
			s.Scale[j] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)

	// 行単位で並列化（小さい行列は逐次処理）
	parallel.ParallelizeWithThreshold(r, scalerParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
			}
		}
	})

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// scalerParallelThreshold 以下の行数では逐次処理を使用する
const scalerParallelThreshold = 1000

// MinMaxScaler はscikit-learn互換のMin-Maxスケーラー
// データを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin は学習データの各特徴量の最小値
	DataMin []float64

	// DataMax は学習データの各特徴量の最大値
	DataMax []float64

	// NFeatures は特徴量の数
	NFeatures int

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{FeatureRange: featureRange}
}

// NewMinMaxScalerDefault は範囲[0, 1]でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit は訓練データから各特徴量の最小値・最大値を計算する
func (s *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if s.FeatureRange[1] <= s.FeatureRange[0] {
		return errors.NewValidationError("feature_range", "max must be greater than min", s.FeatureRange)
	}

	s.NFeatures = c
	s.DataMin = make([]float64, c)
	s.DataMax = make([]float64, c)

	for j := 0; j < c; j++ {
		minV := X.At(0, j)
		maxV := minV
		for i := 1; i < r; i++ {
			v := X.At(i, j)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		s.DataMin[j] = minV
		s.DataMax[j] = maxV
	}

	s.SetFitted()
	return nil
}

// Transform は学習済みの最小値・最大値を使ってデータをスケーリングする
func (s *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", s.NFeatures, c, 1)
	}

	lo, hi := s.FeatureRange[0], s.FeatureRange[1]
	result := mat.NewDense(r, c, nil)

	parallel.ParallelizeWithThreshold(r, scalerParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				span := s.DataMax[j] - s.DataMin[j]
				if math.Abs(span) < 1e-8 {
					// 定数列は範囲の下限に落とす
					result.Set(i, j, lo)
					continue
				}
				scaled := (X.At(i, j) - s.DataMin[j]) / span
				result.Set(i, j, lo+scaled*(hi-lo))
			}
		}
	})

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// GetParams はスケーラーのパラメータを取得する
func (s *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": s.FeatureRange,
	}
}
