package dto

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by request DTOs.
// It must run before the first request is bound and panics if gin's validator
// engine cannot take them.
func RegisterValidators() {
	registerOnce.Do(func() {
		if err := registerValidators(binding.Validator.Engine()); err != nil {
			panic(err)
		}
	})
}

func registerValidators(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", engine)
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("registering notblank: %w", err)
	}
	return nil
}
