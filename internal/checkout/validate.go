package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field-scoped validation patterns. Phone is the local mobile format:
// leading 0, 10-11 digits in total.
var (
	phonePattern  = regexp.MustCompile(`^0\d{9,10}$`)
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// ValidationError carries field-scoped messages. It blocks submission and is
// never sent to the server.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	return fmt.Sprintf("validation failed for: %s", strings.Join(keys, ", "))
}

// Validate checks the form and returns per-field errors, empty when the form
// may be submitted.
func Validate(form Form) map[string]string {
	errs := make(map[string]string)

	if utf8.RuneCountInString(strings.TrimSpace(form.FullName)) < 2 {
		errs["fullName"] = "Full name must be at least 2 characters"
	}

	phone := strings.ReplaceAll(form.PhoneNumber, " ", "")
	if !phonePattern.MatchString(phone) {
		errs["phoneNumber"] = "Phone number must start with 0 and have 10-11 digits"
	}

	if form.Email != "" && !emailPattern.MatchString(form.Email) {
		errs["email"] = "Email address is not valid"
	}

	if form.Address.Province == "" {
		errs["province"] = "Province is required"
	}
	if form.Address.District == "" {
		errs["district"] = "District is required"
	}
	if form.Address.Ward == "" {
		errs["ward"] = "Ward is required"
	}
	if strings.TrimSpace(form.Address.Address) == "" {
		errs["address"] = "Street address is required"
	}

	if form.PaymentMethod == PaymentCredit {
		if !cardPattern.MatchString(form.CardNumber) {
			errs["cardNumber"] = "Card number must be 16 digits"
		}
		if !cvvPattern.MatchString(form.CVV) {
			errs["cvv"] = "CVV must be 3 digits"
		}
		if !expiryPattern.MatchString(form.ExpiryDate) {
			errs["expiryDate"] = "Expiry must be MM/YY"
		}
	}

	// Discount codes are validated server-side; only the format is checked
	// before submission.
	if code := strings.TrimSpace(form.DiscountCode); code != "" {
		if len(code) < 8 || len(code) > 10 {
			errs["discountCode"] = "Discount code must be between 8 and 10 characters"
		}
	}

	return errs
}
