package json

import (
	encjson "encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidate_Valid(t *testing.T) {
	valid := []string{
		`{}`,
		`[]`,
		`null`,
		`true`,
		`false`,
		`0`,
		`-0.5e+10`,
		`"string with \" escape and é"`,
		`{"a":1,"b":[true,null,{"c":"d"}]}`,
		`[[[],[]],{}]`,
		` { "spaced" : [ 1 , 2 ] } `,
		strings.Repeat("[", 2000) + strings.Repeat("]", 2000),
	}
	for _, src := range valid {
		if err := Validate([]byte(src)); err != nil {
			t.Errorf("Validate(%.40q): unexpected error %v", src, err)
		}
		if !encjson.Valid([]byte(src)) {
			t.Errorf("test case %.40q is not actually valid JSON", src)
		}
	}
}

func TestValidate_Invalid(t *testing.T) {
	invalid := []struct {
		name string
		src  string
	}{
		{"empty", ``},
		{"whitespace only", `  `},
		{"unclosed object", `{"a":1`},
		{"unclosed array", `[1,2`},
		{"unclosed string", `"abc`},
		{"trailing comma object", `{"a":1,}`},
		{"trailing comma array", `[1,]`},
		{"missing colon", `{"a" 1}`},
		{"missing value", `{"a":}`},
		{"mismatched close brace", `[1}`},
		{"mismatched close bracket", `{"a":1]`},
		{"bare key", `{a:1}`},
		{"double comma", `[1,,2]`},
		{"trailing content", `{} {}`},
		{"leading zero", `01`},
		{"bare minus", `-`},
		{"dot without digits", `1.`},
		{"exponent without digits", `1e`},
		{"bad escape", `"a\q"`},
		{"short unicode escape", `"\u12"`},
		{"control char in string", "\"a\x01b\""},
		{"stray close", `]`},
		{"bad literal", `tru`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.src))
			if err == nil {
				t.Fatalf("Validate(%q): expected error", tt.src)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if encjson.Valid([]byte(tt.src)) {
				t.Fatalf("test case %q is actually valid JSON", tt.src)
			}
		})
	}
}

func TestValidate_AgreesWithStdlib(t *testing.T) {
	// Mixed bag, checked against encoding/json's verdict.
	cases := []string{
		`{"a":[1,2,3],"b":{"c":null}}`,
		`[1.0e-3,2E+4,-0]`,
		`"é\t"`,
		`{"a":"b"`,
		`[true,false`,
		`123abc`,
		`{"a":1}extra`,
	}
	for _, src := range cases {
		ours := Validate([]byte(src)) == nil
		std := encjson.Valid([]byte(src))
		if ours != std {
			t.Errorf("Validate(%q)=%v, encoding/json says %v", src, ours, std)
		}
	}
}

func TestValidateUTF8(t *testing.T) {
	if err := ValidateUTF8([]byte(`{"k":"héllo"}`)); err != nil {
		t.Fatalf("valid UTF-8 rejected: %v", err)
	}
	if err := ValidateUTF8([]byte("\"\xff\xfe\"")); err == nil {
		t.Fatalf("invalid UTF-8 accepted")
	}
}

func TestSyntaxError_Message(t *testing.T) {
	err := Validate([]byte(`{"a":1,}`))
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if serr.Offset <= 0 || !strings.Contains(serr.Error(), "offset") {
		t.Fatalf("unhelpful error: %v", serr)
	}
}
