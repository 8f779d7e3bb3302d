package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// В сообщениях используем имена полей из JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateFields проверяет только перечисленные поля формы
// Возвращает первую ошибку в виде *ValidationError
func validateFields(v *validator.Validate, data *FormData, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	err := v.StructPartial(data, fields...)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return NewValidationError("", "некорректные данные формы")
	}

	first := errs[0]
	return NewValidationError(first.Field(), message(first))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("заполните поле %s", field)
	case "email":
		return "некорректный email"
	case "oneof":
		return fmt.Sprintf("выберите значение поля %s из списка", field)
	case "min", "max", "len":
		return fmt.Sprintf("значение поля %s вне допустимого диапазона", field)
	case "datetime":
		return fmt.Sprintf("некорректный формат поля %s", field)
	case "uuid":
		return "выберите объект из списка"
	default:
		return fmt.Sprintf("некорректное значение поля %s", field)
	}
}
