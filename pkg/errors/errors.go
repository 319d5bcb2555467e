// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// エラーは4種類の kind（InvalidInput, InvalidHyperparameter, NumericalInstability, NotFitted）
// に分類され、構造化されたエラー情報とスタックトレースを保持します。
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
//	エラー kind
//
// ===========================================================================

var (
	// ErrInvalidInput は形状の不一致、空の入力、非正の件数などを表します。
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidHyperparameter は非正または非有限の精度パラメータを表します。
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")

	// ErrNumericalInstability は事後精度行列が許容誤差内で逆行列化できない場合を表します。
	ErrNumericalInstability = errors.New("numerical instability")

	// ErrNotFitted は学習前に予測系の操作が呼ばれた場合を表します。
	ErrNotFitted = errors.New("not fitted")
)

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = errors.Mark(errors.New("empty data"), ErrInvalidInput)

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = errors.Mark(errors.New("singular matrix"), ErrNumericalInstability)
)

// withKind はエラーに kind のマークとスタックトレースを付与します。
func withKind(err, kind error) error {
	return errors.WithStackDepth(errors.Mark(err, kind), 2)
}

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("bayeslm-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
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
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// IllConditionedWarning は事後精度行列の条件数が大きく、結果の精度が落ちている可能性がある場合の警告です。
// 学習は継続されます。
type IllConditionedWarning struct {
	Op        string
	Condition float64
	Threshold float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("%s: posterior precision is ill-conditioned (condition number %.3g exceeds %.3g); consider a larger weight precision or rescaling features",
		w.Op, w.Condition, w.Threshold)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition", w.Condition).
		Float64("threshold", w.Threshold).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning は新しいIllConditionedWarningを作成します。
func NewIllConditionedWarning(op string, condition, threshold float64) *IllConditionedWarning {
	return &IllConditionedWarning{Op: op, Condition: condition, Threshold: threshold}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で予測系のメソッドを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("bayeslm: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は ErrNotFitted としてマークされたNotFittedErrorを作成します。
func NewNotFittedError(modelName, method string) error {
	return withKind(&NotFittedError{ModelName: modelName, Method: method}, ErrNotFitted)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("bayeslm: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は ErrInvalidInput としてマークされたDimensionErrorを作成します。
func NewDimensionError(op string, expected, got, axis int) error {
	return withKind(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}, ErrInvalidInput)
}

// ValueError は引数の値が不適切な場合のエラーです。
// 空の入力、非正のサンプル数、非有限値などに使います。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("bayeslm: %s: %s", e.Op, e.Message)
}

// NewValueError は ErrInvalidInput としてマークされたValueErrorを作成します。
func NewValueError(op, message string) error {
	return withKind(&ValueError{Op: op, Message: message}, ErrInvalidInput)
}

// HyperparameterError はハイパーパラメータの検証に失敗した場合のエラーです。
type HyperparameterError struct {
	ParamName string
	Reason    string
	Value     float64
}

func (e *HyperparameterError) Error() string {
	return fmt.Sprintf("bayeslm: invalid hyperparameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *HyperparameterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Float64("value", e.Value).
		Str("type", "HyperparameterError")
}

// NewHyperparameterError は ErrInvalidHyperparameter としてマークされたHyperparameterErrorを作成します。
func NewHyperparameterError(param, reason string, value float64) error {
	return withKind(&HyperparameterError{ParamName: param, Reason: reason, Value: value}, ErrInvalidHyperparameter)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 因子分解の失敗、過大な条件数、NaN や Inf の発生を表します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "posterior_precision"）
	Reason    string    // 失敗の内容
	Condition float64   // 条件数の推定値（不明な場合は0）
	Values    []float64 // 問題のある値
}

func (e *NumericalInstabilityError) Error() string {
	msg := fmt.Sprintf("bayeslm: numerical instability detected in %s: %s", e.Operation, e.Reason)
	if e.Condition > 0 {
		msg += fmt.Sprintf(" (condition number %.3g)", e.Condition)
	}
	if len(e.Values) == 0 {
		return msg
	}
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return msg + fmt.Sprintf(". Values: [%s]", valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("reason", e.Reason).
		Float64("condition", e.Condition).
		Int("n_values", len(e.Values)).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は ErrNumericalInstability としてマークされたNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation, reason string, condition float64, values []float64) error {
	return withKind(&NumericalInstabilityError{
		Operation: operation,
		Reason:    reason,
		Condition: condition,
		Values:    values,
	}, ErrNumericalInstability)
}

// ModelError は下位のライブラリが返したエラーを操作名付きでラップします。
// kind は原因のエラーから引き継がれます。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bayeslm: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("bayeslm: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
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

// Mark はエラーに kind を付与し、errors.Is で判定できるようにします。
func Mark(err, kind error) error {
	return errors.Mark(err, kind)
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

// Kind は err が属する kind の sentinel を返します。どれにも属さない場合は nil です。
func Kind(err error) error {
	for _, k := range []error{ErrNotFitted, ErrInvalidHyperparameter, ErrNumericalInstability, ErrInvalidInput} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
