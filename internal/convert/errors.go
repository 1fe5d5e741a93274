package convert

import "fmt"

// Error は変換処理の失敗を分類コード付きで表します。
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode は分類コードを返します。HTTPレイヤーが応答本文へ
// コードを引き写すために使用します。
func (e *Error) ErrorCode() string {
	return e.Code
}

func newError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
