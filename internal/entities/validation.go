package entities

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Column limits of the catalog schema.
const (
	MaxNameLength  = 100
	MaxTitleLength = 100
	MaxTagLength   = 30
	MaxYear        = 9999
)

func (a Author) Validate() error {
	return wrapValidation(validation.Errors{
		"name": validation.Validate(a.name,
			validation.Required.Error("author name is required"),
			validation.RuneLength(1, MaxNameLength),
		),
	})
}

func (b Book) Validate() error {
	return wrapValidation(validation.Errors{
		"title": validation.Validate(b.title,
			validation.Required.Error("book title is required"),
			validation.RuneLength(1, MaxTitleLength),
		),
		"year": validation.Validate(b.year, validation.Min(0), validation.Max(MaxYear)),
	})
}

func (t Tag) Validate() error {
	return wrapValidation(validation.Errors{
		"tag": validation.Validate(t.name,
			validation.Required.Error("tag is required"),
			validation.RuneLength(1, MaxTagLength),
		),
	})
}

func wrapValidation(errs validation.Errors) error {
	if err := errs.Filter(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}
