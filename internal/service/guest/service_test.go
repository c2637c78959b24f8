package guest

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, guestID, err := svc.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if guestID == "" {
		t.Fatal("empty guest id")
	}

	got, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != guestID {
		t.Fatalf("Validate returned %q, want %q", got, guestID)
	}
}

func TestIssueUniqueIDs(t *testing.T) {
	svc := New("test-secret", time.Hour)
	_, first, err := svc.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, second, err := svc.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if first == second {
		t.Fatal("two issued guests share an id")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	minted := New("secret-a", time.Hour)
	verifier := New("secret-b", time.Hour)

	token, _, err := minted.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := New("test-secret", time.Hour)
	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Validate(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := New("test-secret", time.Hour)
	token, _, err := svc.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Jump the verifier's clock past expiry.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
