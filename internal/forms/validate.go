package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidDate   = "Enter a valid date."
	MsgInvalidAmount = "Enter a valid amount with at most 2 decimal places."
	MsgInvalidValue  = "Enter a valid value."
	MsgManagement    = "ManagementForm data is missing or has been tampered with."
	MsgStaleRows     = "Some rows were changed by another request. Review them and submit again."
)

const moneyPlaces = 2

// moneyPattern fits numeric(12,2). Exponents are refused before any decimal
// is built from the value.
var moneyPattern = regexp.MustCompile(`^-?\d{1,10}(\.\d{1,2})?$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("pk", validatePK)
		_ = validate.RegisterValidation("money", validateMoney)
		_ = validate.RegisterValidation("money_positive", validateMoneyPositive)
		_ = validate.RegisterValidation("money_nonnegative", validateMoneyNonNegative)
	})
	return validate
}

// checkField runs rules against value and returns the message for the first
// failing rule, or "" when the value passes.
func checkField(value, rules string) string {
	if rules == "" {
		return ""
	}
	err := getValidator().Var(value, rules)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidValue
	}
	return message(verrs[0])
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fe.Value().(string))))
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", fe.Value())
	case "pk":
		return MsgInvalidChoice
	case "datetime":
		return MsgInvalidDate
	case "money":
		return MsgInvalidAmount
	case "money_positive":
		return "Ensure this value is greater than 0."
	case "money_nonnegative":
		return "Ensure this value is greater than or equal to 0."
	}
	return MsgInvalidValue
}

func validatePK(fl validator.FieldLevel) bool {
	_, ok := parsePK(fl.Field().String())
	return ok
}

func validateMoney(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

// The sign rules only judge well-formed amounts; the money tag reports the rest.
func validateMoneyPositive(fl validator.FieldLevel) bool {
	d, ok := moneyValue(fl.Field().String())
	return !ok || d.IsPositive()
}

func validateMoneyNonNegative(fl validator.FieldLevel) bool {
	d, ok := moneyValue(fl.Field().String())
	return !ok || !d.IsNegative()
}

func moneyValue(s string) (decimal.Decimal, bool) {
	if !moneyPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

func parsePK(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseMoney converts an already validated amount; blank means zero.
func parseMoney(s string) decimal.Decimal {
	d, ok := moneyValue(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}
