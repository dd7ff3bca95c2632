package dto

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Generation modes accepted by the generate endpoints. Case-insensitive;
// empty means replacer.
var generateModes = map[string]struct{}{
	"replacer":  {},
	"blog":      {},
	"elementor": {},
}

var registerOnce sync.Once

// RegisterValidations installs the custom binding rules on gin's validator
// engine. Safe to call more than once.
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		err = engine.RegisterValidation("genmode", validGenerateMode)
	})
	return err
}

func validGenerateMode(fl validator.FieldLevel) bool {
	mode := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if mode == "" {
		return true
	}
	_, ok := generateModes[mode]
	return ok
}
