package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used for storage and forms.
const DateLayout = "2006-01-02"

// MaxDescriptionLength bounds transaction descriptions.
const MaxDescriptionLength = 200

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// TransactionID identifies a transaction. It is generated once at
	// creation time and never changes.
	TransactionID string

	// Transaction is a single income (positive amount) or expense
	// (negative amount) record. The sign is the only discriminator.
	Transaction struct {
		ID          TransactionID   `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
	}

	// NewTransaction is the raw user input for a transaction, as typed into
	// a form or passed on the command line.
	NewTransaction struct {
		Description string `json:"description" validate:"required,max=200"`
		Amount      string `json:"amount" validate:"required,amount"`
		Category    string `json:"category" validate:"required"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Validate rejects the zero date, which is what a stored record without a
// date decodes to.
func (d Date) Validate() error {
	if d.IsZero() {
		return Invalid(FieldDate, ErrMissingDate)
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps too; only the calendar part is kept.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON accepts both string and numeric ids. Records written by the
// browser version of the tracker used random integers.
func (id *TransactionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TransactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = TransactionID(n.String())
	return nil
}

func (id TransactionID) String() string {
	return string(id)
}

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction removes money.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := ParseAmount(fl.Field().String())
		return err == nil
	})
	return v
}

// Normalize trims surrounding whitespace from every field.
func (in NewTransaction) Normalize() NewTransaction {
	return NewTransaction{
		Description: strings.TrimSpace(in.Description),
		Amount:      strings.TrimSpace(in.Amount),
		Category:    strings.TrimSpace(in.Category),
		Date:        strings.TrimSpace(in.Date),
	}
}

// Parse validates the input and converts it into a Transaction without an
// ID. Fields are checked in order description, amount, category, date and
// the first failure is returned as a *ValidationError.
func (in NewTransaction) Parse() (Transaction, error) {
	in = in.Normalize()
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Transaction{}, fieldError(verrs[0])
		}
		return Transaction{}, err
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, Invalid(FieldAmount, err)
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, Invalid(FieldDate, err)
	}

	return Transaction{
		Description: in.Description,
		Amount:      amount,
		Category:    in.Category,
		Date:        date,
	}, nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	switch fe.Field() {
	case FieldDescription:
		if fe.Tag() == "max" {
			return Invalid(FieldDescription, ErrDescriptionTooLong)
		}
		return Invalid(FieldDescription, ErrEmptyDescription)
	case FieldAmount:
		if fe.Tag() == "required" {
			return Invalid(FieldAmount, ErrMissingAmount)
		}
		return Invalid(FieldAmount, ErrInvalidAmount)
	case FieldCategory:
		return Invalid(FieldCategory, ErrEmptyCategory)
	case FieldDate:
		if fe.Tag() == "required" {
			return Invalid(FieldDate, ErrMissingDate)
		}
		return Invalid(FieldDate, ErrInvalidDate)
	}
	return &ValidationError{Field: fe.Field(), Reason: fe.Error()}
}
