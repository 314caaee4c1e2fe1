package store

import (
	"errors"
	"testing"
	"time"
)

func TestStore_PutGetDelete(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetSession("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	sess := Session{ID: "s1", Username: "bob", Token: "tok123", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := s.PutSession(sess); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetSession("s1")
	if err != nil || got != sess {
		t.Errorf("expected %+v, got %+v, %v", sess, got, err)
	}

	if err := s.DeleteSession("s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSession("s1"); !errors.Is(err, ErrNotFound) {
		t.Error("session should be gone")
	}
	if err := s.DeleteSession("s1"); err != nil {
		t.Errorf("deleting a missing session should not fail: %v", err)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	s.PutSession(Session{ID: "a", Token: "t-a"})
	s.PutSession(Session{ID: "b", Token: "t-b"})
	s.DeleteSession("a")

	reopened, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Len() != 1 {
		t.Fatalf("expected 1 session after reopen, got %d", reopened.Len())
	}
	if got, err := reopened.GetSession("b"); err != nil || got.Token != "t-b" {
		t.Errorf("unexpected session %+v, %v", got, err)
	}
}
