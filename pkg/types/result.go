// Package types defines the error taxonomy of the calculator and the result
// record handed to its consumers (CLI, REST, gRPC, web page, TUI, history).
package types

// Result is the outcome of evaluating one expression.
type Result struct {
	Expression string    `json:"expression"`
	Value      float64   `json:"value"`
	Formatted  string    `json:"formatted,omitempty"`
	OK         bool      `json:"ok"`
	ErrorKind  ErrorKind `json:"errorKind,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// NewResult builds a Result from the return values of an evaluation.
// formatted is only kept for successful evaluations.
func NewResult(expression string, value float64, formatted string, err error) Result {
	if err != nil {
		return Result{
			Expression: expression,
			ErrorKind:  KindOf(err),
			Error:      err.Error(),
		}
	}
	return Result{
		Expression: expression,
		Value:      value,
		Formatted:  formatted,
		OK:         true,
	}
}
