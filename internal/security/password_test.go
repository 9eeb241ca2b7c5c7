package security

import "testing"

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestNewToken(t *testing.T) {
	a, err := NewToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("tokens not unique")
	}
	if len(a) < 32 {
		t.Errorf("token too short: %q", a)
	}
}
