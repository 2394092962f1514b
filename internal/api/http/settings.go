package httpapi

import (
	"errors"
	"reflect"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/weather-display/internal/weather"
)

const settingsPath = "/settings/"

var validate, translator = newFormValidator()

func newFormValidator() (*validator.Validate, ut.Translator) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}

	// notblank rejects whitespace-only input without altering what is stored.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	err := v.RegisterTranslation("notblank", trans,
		func(tr ut.Translator) error {
			return tr.Add("notblank", "{0} is a required field", true)
		},
		func(tr ut.Translator, fe validator.FieldError) string {
			msg, _ := tr.T("notblank", fe.Field())
			return msg
		},
	)
	if err != nil {
		panic(err)
	}
	return v, trans
}

// settingsForm is the submitted settings payload.
type settingsForm struct {
	City  string `form:"city" validate:"required,notblank"`
	Lang  string `form:"lang" validate:"required,oneof=hr en de"`
	Units string `form:"units" validate:"required,oneof=metric imperial"`
}

func formFromPreferences(p weather.Preferences) settingsForm {
	return settingsForm{City: p.City, Lang: string(p.Lang), Units: string(p.Units)}
}

func (f settingsForm) preferences() weather.Preferences {
	return weather.Preferences{City: f.City, Lang: weather.Lang(f.Lang), Units: weather.Units(f.Units)}
}

// settingsOutcome is either a form to render (with field errors) or a redirect.
type settingsOutcome struct {
	redirect string
	form     settingsForm
	errors   map[string]string
}

func renderSettings(form settingsForm, errs map[string]string) settingsOutcome {
	return settingsOutcome{form: form, errors: errs}
}

func redirectTo(target string) settingsOutcome {
	return settingsOutcome{redirect: target}
}

// validateForm returns field name to message for every failed rule.
func validateForm(form settingsForm) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fe.Translate(translator)
		}
	}
	return out
}

func (h *Handlers) settingsPage(c *fiber.Ctx) error {
	prefs, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	return h.respondSettings(c, renderSettings(formFromPreferences(prefs), nil))
}

func (h *Handlers) saveSettings(c *fiber.Ctx) error {
	form := settingsForm{
		City:  formValue(c, "city"),
		Lang:  formValue(c, "lang"),
		Units: formValue(c, "units"),
	}

	outcome, err := h.applySettings(c, form)
	if err != nil {
		return err
	}
	return h.respondSettings(c, outcome)
}

// formValue returns a copy that outlives the request buffers.
func formValue(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.FormValue(key))
}

// applySettings validates before touching the session, so a rejected form
// never writes anything.
func (h *Handlers) applySettings(c *fiber.Ctx, form settingsForm) (settingsOutcome, error) {
	if errs := validateForm(form); len(errs) > 0 {
		return renderSettings(form, errs), nil
	}
	if err := h.sessions.Save(c, form.preferences()); err != nil {
		return settingsOutcome{}, err
	}
	h.logger.Info("settings saved", "city", form.City, "lang", form.Lang, "units", form.Units)
	return redirectTo(settingsPath), nil
}

func (h *Handlers) respondSettings(c *fiber.Ctx, out settingsOutcome) error {
	if out.redirect != "" {
		return c.Redirect(out.redirect, fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusOK).Render("settings", fiber.Map{
		"form":   out.form,
		"errors": out.errors,
		"langs":  weather.Langs,
		"units":  weather.AllUnits,
	}, layoutMain)
}
