package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// minReloadInterval is the shortest catalog reload period.
const minReloadInterval = time.Minute

// rule is a custom validation tag and its English message. {0} is the config key.
type rule struct {
	tag     string
	fn      validator.Func
	message string
}

var fieldRules = []rule{
	{
		tag:     "catalog_file",
		fn:      isCatalogFile,
		message: "{0} must be a readable .yml or .yaml catalog file",
	},
	{
		tag:     "reload_interval",
		fn:      isReloadInterval,
		message: "{0} must be 0 to disable reloading or at least " + minReloadInterval.String(),
	},
}

// memoryCatalogTag is reported by the struct level check of Config.
const memoryCatalogTag = "memory_catalog"

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}
	// Errors name the key as written in config.yml.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		key, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if key == "-" {
			return ""
		}
		return key
	})

	for _, r := range fieldRules {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, nil, fmt.Errorf("validate.RegisterValidation(%s) > %w", r.tag, err)
		}
		if err := registerMessage(validate, trans, r.tag, r.message); err != nil {
			return nil, nil, err
		}
	}

	validate.RegisterStructValidation(validateStorage, Config{})
	if err := registerMessage(validate, trans, memoryCatalogTag, "{0} is required with the "+StorageMemory+" storage driver"); err != nil {
		return nil, nil, err
	}
	return validate, trans, nil
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, message string) error {
	err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		msg, _ := ut.T(tag, configKey(fe))
		return msg
	})
	if err != nil {
		return fmt.Errorf("validate.RegisterTranslation(%s) > %w", tag, err)
	}
	return nil
}

// configKey returns the dotted key of a field, such as catalog.file.
func configKey(fe validator.FieldError) string {
	return strings.TrimPrefix(fe.Namespace(), "Config.")
}

// validateStorage requires a catalog file with the memory storage driver.
func validateStorage(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Storage.Driver == StorageMemory && cfg.Catalog.File == "" {
		sl.ReportError(cfg.Catalog.File, "catalog.file", "File", memoryCatalogTag, "")
	}
}

func isCatalogFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
	default:
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func isReloadInterval(fl validator.FieldLevel) bool {
	d := time.Duration(fl.Field().Int())
	return d == 0 || d >= minReloadInterval
}
