package user

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-user-admin/internal/api/crud"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// ModelName is the registry name of the user record kind.
const ModelName = "Users"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("birthday", func(fl validator.FieldLevel) bool {
		_, err := types.ParseBirthday(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("register birthday validation: %v", err))
	}
	return v
}

// NewModel binds the user schema to a store.
func NewModel(store crud.Store[types.User, types.UserInput]) crud.Model[types.User, types.UserInput] {
	return crud.Model[types.User, types.UserInput]{
		Name:     ModelName,
		Store:    store,
		Validate: ValidateInput,
	}
}

// ValidateInput trims every field, lowercases the email and checks the result.
// Only the first violated rule is reported.
func ValidateInput(in types.UserInput) (types.UserInput, error) {
	in = types.UserInput{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Address:       strings.TrimSpace(in.Address),
		Birthday:      strings.TrimSpace(in.Birthday),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
	}

	err := validate.Struct(in)
	if err == nil {
		return in, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return types.UserInput{}, types.NewError(types.KindInternal, "validation failed", err)
	}
	return types.UserInput{}, types.NewError(types.KindInvalidInput, messageFor(verrs[0]), nil)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "email must be a valid email address"
	case "birthday":
		return "birthday must be a valid date"
	case "number":
		return "Contact number must contain numbers only"
	case "min":
		return fmt.Sprintf("Contact number must be at least %s digits", fe.Param())
	case "max":
		return fmt.Sprintf("Contact number must be at most %s digits", fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
