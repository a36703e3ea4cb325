package util

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate 与 gin 共用 binding 标签，命令行输入和 HTTP 请求走同一套规则
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// ValidateDTO 校验结构体 binding 标签，只报告第一个失败字段
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			first := vErrs[0]
			return fmt.Errorf("field '%s' failed on the '%s' rule", first.Field(), first.Tag())
		}
		return err
	}
	return nil
}

// ValidateVar 校验单个值
func ValidateVar(v any, tag string) error {
	return validate.Var(v, tag)
}
