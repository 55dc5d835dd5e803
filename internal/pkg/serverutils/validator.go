package serverutils

import (
	"fmt"
	"strings"

	"grid-portal-be/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds all failures into
// one invalid-argument error the handler chain can map to a 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fails []string
		for _, fe := range err.(validator.ValidationErrors) {
			fails = append(fails, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return apperr.InvalidArgument(strings.Join(fails, "; "), err)
	}
	return nil
}
