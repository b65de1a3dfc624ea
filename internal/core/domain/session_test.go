package domain

import (
	"errors"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	in := Session{
		Identity: Identity{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: RoleAdmin, Location: "Pune"},
		Token:    "tok-1",
	}

	data, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestSnapshot_IsFlat(t *testing.T) {
	data, err := EncodeSnapshot(Session{Identity: Identity{Name: "Ravi", Role: RoleUser}, Token: "t"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"name":"Ravi","role":"user","token":"t"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":     `{not json`,
		"empty":        ``,
		"array":        `[1,2]`,
		"string":       `"user"`,
		"no token":     `{"name":"a","role":"user"}`,
		"unknown role": `{"name":"a","role":"root","token":"t"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeSnapshot([]byte(raw)); !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
			}
		})
	}
}

func TestDecodeSnapshot_DefaultsRole(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"name":"a","token":"t"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Identity.Role != RoleUser {
		t.Fatalf("expected default role user, got %q", s.Identity.Role)
	}
}
