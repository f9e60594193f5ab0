package service

import (
	"testing"

	"github.com/maxviazov/settings-service/internal/config"
)

func TestIsJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"object", `{"a":1}`, true},
		{"empty object", `{}`, true},
		{"object with whitespace", " \n{ \"a\" : [1] }\t", true},
		{"array", `[{"a":1}]`, false},
		{"string", `"{}"`, false},
		{"truncated", `{"a":`, false},
		{"trailing garbage", `{"a":1} x`, false},
		{"empty", ``, false},
		{"invalid utf8 in string", "{\"a\":\"\xff\"}", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsJSONObject([]byte(tc.input)); got != tc.want {
				t.Errorf("IsJSONObject(%q) = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestValidatePayload_InvalidUTF8(t *testing.T) {
	err := validatePayload([]byte("{\"a\":\"\xff\"}"))
	fe := FieldErrors(err)
	if len(fe) != 1 || fe[0].Field != "body" || fe[0].Message != "must be valid UTF-8 JSON" {
		t.Fatalf("unexpected field errors: %+v", fe)
	}
}

func TestNormalizePage_DefaultAboveMax(t *testing.T) {
	p, err := normalizePage(PageQuery{}, config.PaginationConfig{DefaultLimit: 50, MaxLimit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != 20 || p.Offset != 0 {
		t.Fatalf("expected (20,0), got (%d,%d)", p.Limit, p.Offset)
	}
}
