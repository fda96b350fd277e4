package http

import (
	"strings"
	"testing"
)

func TestCPFValidation(t *testing.T) {
	type P struct {
		CPF string `validate:"cpf"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{CPF: "52998224725"}); err != nil {
		t.Fatalf("expected valid cpf, got err: %v", err)
	}

	for _, s := range []string{
		"",               // empty
		"529.982.247-25", // formatted
		"5299822472",     // 10 digits
		"529982247251",   // 12 digits
		"5299822472a",    // letter
	} {
		err := cv.Validate(P{CPF: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		found := false
		for _, e := range fe {
			if e.Field == "CPF" && strings.Contains(e.Message, "11-digit CPF") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected cpf message for %q, got: %+v", s, fe)
		}
	}
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		CopyID string `validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{CopyID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",                      // empty
		strings.Repeat("A", 32), // uppercase
		"deadbeef",              // too short
		strings.Repeat("g", 32), // non-hex char
		strings.Repeat("a", 33), // too long
	} {
		err := cv.Validate(P{CopyID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		found := false
		for _, e := range fe {
			if e.Field == "CopyID" && strings.Contains(e.Message, "32-char lowercase hex") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestToFieldErrors_ReadableMessages(t *testing.T) {
	type P struct {
		Name  string `validate:"required,max=10"`
		Email string `validate:"required,email"`
		Limit int    `validate:"gte=1,lte=100"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "um nome longo demais", Email: "not-an-email", Limit: 0})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fe := ToFieldErrors(err)

	want := map[string]string{
		"Name":  "must be at most 10",
		"Email": "must be a valid email address",
		"Limit": "must be greater than or equal to 1",
	}
	for field, msg := range want {
		found := false
		for _, e := range fe {
			if e.Field == field && strings.Contains(e.Message, msg) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing %q detail for %s: %+v", msg, field, fe)
		}
	}
}
