package config

import (
	"os"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Env returns a function that reads an environment variable. An unset
// variable evaluates to an empty string.
func Env() function.Function {
	spec := function.Spec{
		Description: "Reads an environment variable",
		Params: []function.Parameter{
			{
				Name:             "name",
				Description:      "name of the environment variable",
				Type:             cty.String,
				AllowNull:        false,
				AllowUnknown:     false,
				AllowMarked:      false,
				AllowDynamicType: true,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(os.Getenv(args[0].AsString())), nil
		},
	}
	return function.New(&spec)
}
