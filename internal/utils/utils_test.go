package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"ahmed@gmail.com",
		"fatima.k@piosdf.com",
		"asdfj.jh@pio.sdf.com",
	}
	invalid := []string{
		"asdjfkjsdhf",
		"@asdfjaskh",
		"asdfasdf@",
		"two words@mail.com",
	}

	for _, v := range valid {
		if !ValidateEmail(v) {
			t.Errorf("Email should be valid: %s", v)
		}
	}

	for _, v := range invalid {
		if ValidateEmail(v) {
			t.Errorf("Email should be invalid: %s", v)
		}
	}
}

func TestGenToken(t *testing.T) {
	a := GenToken(64)
	b := GenToken(64)
	if len(a) == 0 || len(b) == 0 {
		t.Fatalf("GenToken(64) returned empty token")
	}
	if a == b {
		t.Errorf("GenToken(64) returned the same token twice: %s", a)
	}
}
