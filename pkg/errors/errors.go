// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// scikit-learnの警告・例外システムにインスパイアされており、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("gomvpa-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、SelectionOverflowWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
// 警告は制御フローを変更しません。呼び出し側は無視しても構いません。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	MVPAデコーディング特有の警告型
//
// ===========================================================================

// SelectionOverflowWarning は要求された特徴量数が利用可能な列数を超えた場合の警告です。
// フォールバックとして全列が保持されます。
type SelectionOverflowWarning struct {
	Requested int
	Available int
}

func (w *SelectionOverflowWarning) Error() string {
	return fmt.Sprintf("requested %d features but only %d are available. Keeping all features.", w.Requested, w.Available)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *SelectionOverflowWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("requested", w.Requested).
		Int("available", w.Available).
		Str("type", "SelectionOverflowWarning")
}

// NewSelectionOverflowWarning は新しいSelectionOverflowWarningを作成します。
func NewSelectionOverflowWarning(requested, available int) *SelectionOverflowWarning {
	return &SelectionOverflowWarning{Requested: requested, Available: available}
}

// ThresholdNoOpWarning はクリティカル値による選択が効果を持たなかった場合の警告です。
// 全列が閾値を超えた場合（Survivors == NFeatures）、あるいは1列も超えなかった場合
// （Survivors == 0）に発生し、フォールバックとして全列が保持されます。
type ThresholdNoOpWarning struct {
	CriticalValue float64
	Survivors     int
	NFeatures     int
}

func (w *ThresholdNoOpWarning) Error() string {
	if w.Survivors == 0 {
		return fmt.Sprintf("no feature score exceeds critical value %g. Keeping all %d features.", w.CriticalValue, w.NFeatures)
	}
	return fmt.Sprintf("all %d feature scores exceed critical value %g. Selection has no effect.", w.NFeatures, w.CriticalValue)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ThresholdNoOpWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("critical_value", w.CriticalValue).
		Int("survivors", w.Survivors).
		Int("n_features", w.NFeatures).
		Str("type", "ThresholdNoOpWarning")
}

// NewThresholdNoOpWarning は新しいThresholdNoOpWarningを作成します。
func NewThresholdNoOpWarning(criticalValue float64, survivors, nFeatures int) *ThresholdNoOpWarning {
	return &ThresholdNoOpWarning{CriticalValue: criticalValue, Survivors: survivors, NFeatures: nFeatures}
}

// CorrelationClampWarning は相関係数の絶対値が1に達し、Fisher z変換の発散を防ぐため
// ±0.99999へクランプされた場合の警告です。
type CorrelationClampWarning struct {
	Rows    int
	Cols    int
	Clamped int
}

func (w *CorrelationClampWarning) Error() string {
	return fmt.Sprintf("clamped %d of %d correlation values to +/-0.99999 to keep the Fisher z-transform finite", w.Clamped, w.Rows*w.Cols)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *CorrelationClampWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("rows", w.Rows).
		Int("cols", w.Cols).
		Int("clamped", w.Clamped).
		Str("type", "CorrelationClampWarning")
}

// NewCorrelationClampWarning は新しいCorrelationClampWarningを作成します。
func NewCorrelationClampWarning(rows, cols, clamped int) *CorrelationClampWarning {
	return &CorrelationClampWarning{Rows: rows, Cols: cols, Clamped: clamped}
}

// DegenerateFeatureWarning は特徴量が1列しかなく相関が定義できない場合の警告です。
// 分類結果は文書化された形状のNaN行列として返されます。エラーではありません。
type DegenerateFeatureWarning struct {
	Op        string
	NFeatures int
}

func (w *DegenerateFeatureWarning) Error() string {
	return fmt.Sprintf("%s: correlation is undefined for %d feature column(s). Returning NaN-filled outputs.", w.Op, w.NFeatures)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DegenerateFeatureWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("n_features", w.NFeatures).
		Str("type", "DegenerateFeatureWarning")
}

// NewDegenerateFeatureWarning は新しいDegenerateFeatureWarningを作成します。
func NewDegenerateFeatureWarning(op string, nFeatures int) *DegenerateFeatureWarning {
	return &DegenerateFeatureWarning{Op: op, NFeatures: nFeatures}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Classify` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("gomvpa: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("gomvpa: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// `ValueError`よりも具体的なバリデーションロジックの失敗を示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gomvpa: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、選択トークンに "all" 以外の文字列を渡した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("gomvpa: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は推定器に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gomvpa: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gomvpa: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	汎用センチネルエラー
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrUnknownMethod は変換メソッド識別子が登録名にもcapabilityオブジェクトにも
	// 解決できない場合のエラーです。
	ErrUnknownMethod = New("unknown transform method")
)
