// Package validate provides the shared struct validator.
package validate

import (
	"sync"

	validator "github.com/go-playground/validator/v10"
)

var (
	v    *validator.Validate
	once sync.Once
)

// Validate returns the process-wide validator instance.
func Validate() *validator.Validate {
	once.Do(func() {
		v = validator.New()
	})
	return v
}
