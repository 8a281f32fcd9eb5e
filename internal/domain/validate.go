package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	solutionValidate     *validator.Validate
	solutionValidateOnce sync.Once
)

func structValidator() *validator.Validate {
	solutionValidateOnce.Do(func() {
		solutionValidate = validator.New(validator.WithRequiredStructEnabled())
	})
	return solutionValidate
}

// Validate checks that the Solution is well formed: id and agent present,
// at least one change, every change naming a file and a known kind.
// Failures wrap ErrInvalidSolution.
func (s Solution) Validate() error {
	if err := structValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSolution, err)
	}
	return nil
}
