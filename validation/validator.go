// Package validation interprets pipe-separated rule strings such as "required|email|max:255".
package validation

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Rules maps a field name to its rule string.
type Rules map[string]string

// File describes an uploaded file as seen by the file rules.
type File struct {
	Filename    string
	Size        int64
	ContentType string
}

// Input is the request data being validated. Value returns "" for missing fields,
// Has tells a missing field from an empty one.
type Input interface {
	Value(name string) string
	Has(name string) bool
	File(name string) *File
}

// Lookup backs the unique and exists rules.
type Lookup interface {
	Exists(ctx context.Context, table, column string, value any) (bool, error)
}

// Errors holds the first failure message for each invalid field.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e Errors) Any() bool {
	return len(e) > 0
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

type Validator struct {
	lookup Lookup
}

// New returns a validator. lookup may be nil when no rule uses unique or exists.
func New(lookup Lookup) *Validator {
	return &Validator{lookup: lookup}
}

// Validate applies rules to in. The returned error is only set when a lookup query fails.
func (v *Validator) Validate(ctx context.Context, in Input, rules Rules) (Errors, error) {
	errs := Errors{}

	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		ruleList := strings.Split(rules[field], "|")

		var err error
		switch {
		case hasRule(ruleList, "file"):
			v.validateFile(field, ruleList, in, errs)
		case hasRule(ruleList, "number"):
			err = v.validateField(ctx, field, ruleList, in, errs, true)
		default:
			err = v.validateField(ctx, field, ruleList, in, errs, false)
		}
		if err != nil {
			return nil, err
		}
	}

	return errs, nil
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func (v *Validator) validateField(ctx context.Context, field string, rules []string, in Input, errs Errors, isNumber bool) error {
	value := strings.TrimSpace(in.Value(field))

	for _, rule := range rules {
		if errs.Has(field) {
			return nil
		}

		name, param, _ := strings.Cut(rule, ":")

		if name == "required" {
			if value == "" {
				errs[field] = fmt.Sprintf("%s is required", field)
			}
			continue
		}

		// every other rule only judges present values
		if value == "" {
			continue
		}

		switch name {
		case "email":
			if !IsEmail(value) {
				errs[field] = fmt.Sprintf("%s must be email format", field)
			}
		case "date":
			if _, err := time.Parse("2006-01-02", value); err != nil {
				errs[field] = fmt.Sprintf("%s must be date format", field)
			}
		case "number":
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs[field] = fmt.Sprintf("%s must be number format", field)
			}
		case "confirmed":
			confirmField := "confirm_" + field
			if !in.Has(confirmField) {
				errs[field] = fmt.Sprintf("%s %s not exist", field, confirmField)
			} else if strings.TrimSpace(in.Value(confirmField)) != value {
				errs[field] = fmt.Sprintf("%s confirmation does not match", field)
			}
		case "max", "min":
			limit, err := strconv.Atoi(param)
			if err != nil {
				return fmt.Errorf("rule %q on %s: invalid limit", rule, field)
			}
			if msg := checkBound(field, name, value, limit, isNumber); msg != "" {
				errs[field] = msg
			}
		case "unique", "exists":
			table, column, _ := strings.Cut(param, ",")
			if column == "" {
				column = field
			}
			if v.lookup == nil {
				return fmt.Errorf("rule %q on %s: no lookup configured", rule, field)
			}
			found, err := v.lookup.Exists(ctx, table, column, value)
			if err != nil {
				return err
			}
			if name == "unique" && found {
				errs[field] = fmt.Sprintf("%s must be unique", field)
			}
			if name == "exists" && !found {
				errs[field] = fmt.Sprintf("%s not already exist", field)
			}
		}
	}

	return nil
}

func checkBound(field, rule, value string, limit int, isNumber bool) string {
	if isNumber {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Sprintf("%s must be number format", field)
		}
		if rule == "max" && n > float64(limit) {
			return fmt.Sprintf("%s max number equal or lower than %d", field, limit)
		}
		if rule == "min" && n < float64(limit) {
			return fmt.Sprintf("%s min number equal or upper than %d", field, limit)
		}
		return ""
	}

	length := utf8.RuneCountInString(value)
	if rule == "max" && length > limit {
		return fmt.Sprintf("%s max length equal or lower than %d character", field, limit)
	}
	if rule == "min" && length < limit {
		return fmt.Sprintf("%s min length equal or upper than %d character", field, limit)
	}
	return ""
}

func (v *Validator) validateFile(field string, rules []string, in Input, errs Errors) {
	file := in.File(field)
	present := file != nil && file.Filename != ""

	for _, rule := range rules {
		if errs.Has(field) {
			return
		}

		name, param, _ := strings.Cut(rule, ":")

		if name == "required" {
			if !present {
				errs[field] = fmt.Sprintf("%s is required", field)
			}
			continue
		}
		if !present {
			continue
		}

		switch name {
		case "mimes":
			allowed := strings.Split(param, ",")
			if !hasRule(allowed, MimeSubtype(file.ContentType)) {
				errs[field] = fmt.Sprintf("%s type must be %s", field, strings.Join(allowed, ", "))
			}
		case "max":
			kb, _ := strconv.ParseInt(param, 10, 64)
			if file.Size > kb*1024 {
				errs[field] = fmt.Sprintf("%s size must be lower than %d kb", field, kb)
			}
		case "min":
			kb, _ := strconv.ParseInt(param, 10, 64)
			if file.Size < kb*1024 {
				errs[field] = fmt.Sprintf("%s size must be upper than %d kb", field, kb)
			}
		}
	}
}

// MimeSubtype returns "png" for "image/png", "svg" for "image/svg+xml".
func MimeSubtype(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return ""
	}
	sub, _, _ = strings.Cut(sub, "+")
	return strings.ToLower(sub)
}

// IsEmail accepts a bare address without display name.
func IsEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// MapInput is an Input over plain maps.
type MapInput struct {
	Values map[string]string
	Files  map[string]*File
}

func (m MapInput) Value(name string) string {
	return m.Values[name]
}

func (m MapInput) Has(name string) bool {
	_, ok := m.Values[name]
	return ok
}

func (m MapInput) File(name string) *File {
	return m.Files[name]
}
