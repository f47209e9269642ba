package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var (
	v    *gpvalidator.Validate
	once sync.Once

	regionMu    sync.RWMutex
	phoneRegion = "CO"
)

// SetPhoneRegion región por defecto para números sin prefijo internacional.
func SetPhoneRegion(region string) {
	if region == "" {
		return
	}
	regionMu.Lock()
	phoneRegion = strings.ToUpper(region)
	regionMu.Unlock()
}

// ValidPhone indica si s es un teléfono válido para la región por defecto (o con prefijo +).
func ValidPhone(s string) bool {
	regionMu.RLock()
	region := phoneRegion
	regionMu.RUnlock()
	p, err := libphonenumber.Parse(s, region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

func get() *gpvalidator.Validate {
	once.Do(func() {
		v = gpvalidator.New(gpvalidator.WithRequiredStructEnabled())
		// Usar el nombre JSON del campo en los mensajes.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Tag "phone": teléfonos de contacto, conductores y mensajeros.
		_ = v.RegisterValidation("phone", func(fl gpvalidator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
	})
	return v
}

// Struct valida s según sus tags `validate`. Devuelve un error con los campos fallidos.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs gpvalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("campos inválidos: %s", strings.Join(parts, ", "))
}
