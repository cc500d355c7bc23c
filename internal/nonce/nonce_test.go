package nonce

import (
	"testing"
	"time"
)

func newService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	s, err := New("test-secret", ttl)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func TestMintVerifyRoundTrip(t *testing.T) {
	s := newService(t, time.Hour)
	token := s.Mint("booking")

	if err := s.Verify("booking", token); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsWrongAction(t *testing.T) {
	s := newService(t, time.Hour)
	token := s.Mint("booking")

	if err := s.Verify("admin", token); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := newService(t, time.Hour)
	token := s.Mint("booking")

	for _, bad := range []string{"", "garbage", token + "x", token[:len(token)-2]} {
		if err := s.Verify("booking", bad); err != ErrInvalid {
			t.Fatalf("token %q: expected ErrInvalid, got %v", bad, err)
		}
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := newService(t, time.Hour)
	token := s.Mint("booking")

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := s.Verify("booking", token); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	a := newService(t, time.Hour)
	b, err := New("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := b.Verify("booking", a.Mint("booking")); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid across secrets, got %v", err)
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New("  ", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
