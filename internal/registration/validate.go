package registration

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const FIELD_PARTICIPANTS = "participants"

var (
	validate = newValidator()

	// Registration.participants[2].age
	participantFieldRegex = regexp.MustCompile(`participants\[(\d+)\]\.(\w+)$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError points at a single offending field. Index is -1 for errors on the
// participant list itself.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Path renders the error location as participants.<index>.<field>.
func (e FieldError) Path() string {
	if e.Index < 0 {
		return e.Field
	}
	return fmt.Sprintf("%s.%d.%s", FIELD_PARTICIPANTS, e.Index, e.Field)
}

func (e FieldError) Error() string {
	return e.Path() + ": " + e.Message
}

type FieldErrors []FieldError

func (errs FieldErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// For returns the errors reported for participant i.
func (errs FieldErrors) For(i int) FieldErrors {
	var out FieldErrors
	for _, e := range errs {
		if e.Index == i {
			out = append(out, e)
		}
	}
	return out
}

func (errs FieldErrors) Has(i int, field string) bool {
	for _, e := range errs {
		if e.Index == i && e.Field == field {
			return true
		}
	}
	return false
}

// Validate never fails hard: every problem comes back as a FieldError.
// A nil result means the registration can be submitted.
func Validate(r Registration) FieldErrors {
	var out FieldErrors

	err := validate.Struct(r)
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			out = append(out, fromValidator(fe))
		}
	case err != nil:
		out = append(out, FieldError{Index: -1, Field: FIELD_PARTICIPANTS, Rule: "invalid", Message: err.Error()})
	}

	if captain, ok := r.Captain(); ok && strings.TrimSpace(captain.PrimaryPhone) == "" {
		out = append(out, FieldError{
			Index:   0,
			Field:   "primaryPhone",
			Rule:    "required",
			Message: "Primary phone for team captain is required",
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}

func fromValidator(fe validator.FieldError) FieldError {
	e := FieldError{Index: -1, Field: fe.Field(), Rule: fe.Tag()}

	if m := participantFieldRegex.FindStringSubmatch(fe.Namespace()); m != nil {
		e.Index, _ = strconv.Atoi(m[1])
		e.Field = m[2]
	}

	e.Message = messageFor(e.Field, fe.Tag(), fe.Param())
	return e
}

func messageFor(field, tag, param string) string {
	switch field {
	case "fullName":
		return "Full name is required"
	case "age":
		if tag == "max" {
			return fmt.Sprintf("Maximum age is %d", MAX_AGE)
		}
		return fmt.Sprintf("Minimum age is %d", MIN_AGE)
	case "gender":
		return "Gender must be one of Male, Female, Other"
	case FIELD_PARTICIPANTS:
		return fmt.Sprintf("Team must have between %d and %d participants", MIN_TEAM_SIZE, MAX_TEAM_SIZE)
	}
	return fmt.Sprintf("%s failed on %s %s", field, tag, param)
}
