package workflow

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/util"
	"github.com/go-playground/validator/v10"
)

const MaxShortDescription = 150

type postSubmission struct {
	Title            string `validate:"required" label:"title"`
	ShortDescription string `validate:"required,max=150" label:"short description"`
	URL              string `validate:"required" label:"url"`
	AltName          string `validate:"required" label:"image alt text"`
	Content          string `validate:"required" label:"content"`
}

type translationSubmission struct {
	Title            string `validate:"required" label:"translated title"`
	ShortDescription string `validate:"required,max=150" label:"translated short description"`
	Content          string `validate:"required" label:"translated content"`
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	return v
}()

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.New(apperror.Validation, "invalid input", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return apperror.New(apperror.Validation, strings.Join(msgs, "; "), nil)
}

// trimPost normalizes the fields that are both validated and committed.
func trimPost(d draft.PostDraft) draft.PostDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.ShortDescription = strings.TrimSpace(d.ShortDescription)
	d.URL = util.FormatSlug(d.URL)
	d.AltName = strings.TrimSpace(d.AltName)
	d.Content = strings.TrimSpace(d.Content)
	return d
}

func trimTranslation(d draft.TranslationDraft) draft.TranslationDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.ShortDescription = strings.TrimSpace(d.ShortDescription)
	d.Content = strings.TrimSpace(d.Content)
	return d
}

// validatePost expects a draft passed through trimPost.
func validatePost(d draft.PostDraft) error {
	s := postSubmission{
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		URL:              d.URL,
		AltName:          d.AltName,
		Content:          d.Content,
	}
	if err := validate.Struct(s); err != nil {
		return validationError(err)
	}
	return nil
}

func validateTranslation(d draft.TranslationDraft) error {
	s := translationSubmission{
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		Content:          d.Content,
	}
	if err := validate.Struct(s); err != nil {
		return validationError(err)
	}
	return nil
}
