package extractor

import (
	"errors"
	"fmt"
)

// ErrEmptyOrderText 下单文本为空
var ErrEmptyOrderText = errors.New("order text is empty")

// ExtractionFormatError 抽取结果无法解析为合法意图
type ExtractionFormatError struct {
	Raw    string
	Reason string
}

func (e *ExtractionFormatError) Error() string {
	return fmt.Sprintf("could not parse extraction output (%s): %s", e.Reason, e.Raw)
}

// ExtractionTransportError 抽取服务调用失败
type ExtractionTransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ExtractionTransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("extraction call failed with status %d: %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("extraction call failed: %v", e.Err)
	}
	return "extraction call failed"
}

func (e *ExtractionTransportError) Unwrap() error {
	return e.Err
}

// IsFormatError 判断是否为抽取格式错误
func IsFormatError(err error) bool {
	var target *ExtractionFormatError
	return errors.As(err, &target)
}

// IsTransportError 判断是否为抽取调用错误
func IsTransportError(err error) bool {
	var target *ExtractionTransportError
	return errors.As(err, &target)
}

var errOracleMissing = errors.New("extraction oracle not configured")
