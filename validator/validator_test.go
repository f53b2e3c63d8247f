package validator

import (
	"strings"
	"testing"
)

func validSubmission() Submission {
	return Submission{
		Name:    "Ana Silva",
		Email:   "ana@x.com",
		Subject: "Orçamento projeto",
		Message: "Gostaria de um orçamento para um site institucional.",
	}
}

func TestValidSubmissionPasses(t *testing.T) {
	sanitized, err := ContactSubmission(validSubmission())
	if err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
	if sanitized.Name != "Ana Silva" {
		t.Errorf("name mangled: %q", sanitized.Name)
	}
	if sanitized.Email != "ana@x.com" {
		t.Errorf("email mangled: %q", sanitized.Email)
	}
}

func TestSanitizeEscapesEntities(t *testing.T) {
	got := Sanitize(`  O'Brien says "<hello>"  `)
	want := `O&#x27;Brien says &quot;&lt;hello&gt;&quot;`
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizedOutputHasNoRawSpecials(t *testing.T) {
	input := validSubmission()
	input.Name = "Ana D'Ávila"
	input.Message = `Preciso de um site com "destaque" no topo, algo simples.`
	sanitized, err := ContactSubmission(input)
	if err != nil {
		t.Fatalf("submission rejected: %v", err)
	}
	for _, field := range []string{sanitized.Name, sanitized.Subject, sanitized.Message} {
		if strings.ContainsAny(field, `<>"'`) {
			t.Errorf("sanitized field still contains raw specials: %q", field)
		}
	}
}

func TestLengthLimitsCountCharactersNotBytes(t *testing.T) {
	// Accented letters are two bytes in UTF-8; limits are per
	// character, so these must land exactly on the documented bounds.
	cases := []struct {
		desc  string
		field string
		value string
		ok    bool
	}{
		{"60-char accented name", "name", strings.Repeat("Áé", 30), true},
		{"100-char accented name", "name", strings.Repeat("ã", 100), true},
		{"101-char accented name", "name", strings.Repeat("ã", 101), false},
		{"1-char accented name", "name", "É", false},
		{"2-char accented name", "name", "Éç", true},
		{"5-char accented subject", "subject", strings.Repeat("ç", 5), true},
		{"4-char accented subject", "subject", strings.Repeat("ç", 4), false},
		{"200-char accented subject", "subject", strings.Repeat("é", 200), true},
		{"201-char accented subject", "subject", strings.Repeat("é", 201), false},
		{"3000-char accented message", "message", strings.Repeat("ã", 3000), true},
		{"5000-char accented message", "message", strings.Repeat("õ", 5000), true},
		{"5001-char accented message", "message", strings.Repeat("õ", 5001), false},
		{"10-char accented message", "message", strings.Repeat("ê", 10), true},
		{"9-char accented message", "message", strings.Repeat("ê", 9), false},
	}
	for _, tc := range cases {
		input := validSubmission()
		switch tc.field {
		case "name":
			input.Name = tc.value
		case "subject":
			input.Subject = tc.value
		case "message":
			input.Message = tc.value
		}
		_, err := ContactSubmission(input)
		if (err == nil) != tc.ok {
			t.Errorf("%s: got err=%v, want ok=%v", tc.desc, err, tc.ok)
		}
	}
}

func TestNameConstraints(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"too short", "A", false},
		{"too long", strings.Repeat("a", 101), false},
		{"digits", "Ana2 Silva", false},
		{"angle brackets", "Ana <script>", false},
		{"accented", "João Gonçalves", true},
		{"hyphen and apostrophe", "Anne-Marie O'Neil", true},
	}
	for _, tc := range cases {
		input := validSubmission()
		input.Name = tc.in
		_, err := ContactSubmission(input)
		if (err == nil) != tc.ok {
			t.Errorf("%s: name %q: got err=%v, want ok=%v", tc.name, tc.in, err, tc.ok)
		}
	}
}

func TestEmailConstraints(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"ana@x.com", true},
		{"ANA@X.COM", true}, // lowercased before checking
		{"not-an-email", false},
		{"a@b", false},
		{"script@evil.com", false},
		{"user@javascript.com", false},
		{strings.Repeat("a", 250) + "@x.com", false},
	}
	for _, tc := range cases {
		input := validSubmission()
		input.Email = tc.in
		_, err := ContactSubmission(input)
		if (err == nil) != tc.ok {
			t.Errorf("email %q: got err=%v, want ok=%v", tc.in, err, tc.ok)
		}
	}
}

func TestEmailIsLowercased(t *testing.T) {
	input := validSubmission()
	input.Email = "Ana.Silva@Example.COM"
	sanitized, err := ContactSubmission(input)
	if err != nil {
		t.Fatalf("submission rejected: %v", err)
	}
	if sanitized.Email != "ana.silva@example.com" {
		t.Errorf("email = %q, want lowercased", sanitized.Email)
	}
}

func TestSubjectConstraints(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Orçamento", true},
		{"abc", false},
		{strings.Repeat("a", 201), false},
		{"price < quote", false},
		{"a;b or c", false},
		{`back\slash here`, false},
	}
	for _, tc := range cases {
		input := validSubmission()
		input.Subject = tc.in
		_, err := ContactSubmission(input)
		if (err == nil) != tc.ok {
			t.Errorf("subject %q: got err=%v, want ok=%v", tc.in, err, tc.ok)
		}
	}
}

func TestMessageRejectsScriptAndSQLMarkers(t *testing.T) {
	bad := []string{
		"please run this <ScRiPt> for me",
		"my homepage uses javascript frameworks", // contains "script"
		"quero um site -- com dashboard",
		"name'; drop table contacts",
		"something;--something else",
	}
	for _, msg := range bad {
		input := validSubmission()
		input.Message = msg
		if _, err := ContactSubmission(input); err == nil {
			t.Errorf("message %q should be rejected", msg)
		}
	}
}

func TestAllViolationsAreEnumerated(t *testing.T) {
	_, err := ContactSubmission(Submission{
		Name:    "A",
		Email:   "nope",
		Subject: "ab",
		Message: "short",
	})
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	fields := map[string]bool{}
	for _, fieldErr := range verrs {
		fields[fieldErr.Field] = true
	}
	for _, field := range []string{"name", "email", "subject", "message"} {
		if !fields[field] {
			t.Errorf("missing violation for field %q in %v", field, verrs)
		}
	}
}

func TestContactID(t *testing.T) {
	if err := ContactID("cjld2cjxh0000qzrmn831i7rn"); err != nil {
		t.Errorf("well-formed id rejected: %v", err)
	}
	bad := []string{
		"",
		"1; DROP TABLE contacts",
		"cjld2cjxh0000qzrmn831i7r",   // 24 chars
		"cjld2cjxh0000qzrmn831i7rnx", // 26 chars
		"djld2cjxh0000qzrmn831i7rn",  // wrong leading letter
		"cjld2cjxh0000QZRMN831i7rn",  // uppercase
		"cjld2cjxh0000qzrmn831i7r!",  // punctuation
	}
	for _, id := range bad {
		if err := ContactID(id); err == nil {
			t.Errorf("id %q should be rejected", id)
		}
	}
}
