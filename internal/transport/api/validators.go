package api

import (
	"fmt"

	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateMoney десятичная денежная строка ("13.30", "-4.90").
func validateMoney(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := currency.FromString(str)
	return err == nil
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
