package store

import (
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func TestAccountStore_CreateAndGet(t *testing.T) {
	s := NewAccountStore()
	a := &domain.Account{AccountID: "player", Kind: domain.AccountKindHuman, CashBalance: 100000}

	if err := s.Create(a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Get("player")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != a {
		t.Error("Get() returned a different account")
	}
}

func TestAccountStore_CreateDuplicate(t *testing.T) {
	s := NewAccountStore()
	_ = s.Create(&domain.Account{AccountID: "player"})

	if err := s.Create(&domain.Account{AccountID: "player"}); err != domain.ErrAccountAlreadyExists {
		t.Errorf("Create() error = %v, want ErrAccountAlreadyExists", err)
	}
}

func TestAccountStore_GetMissing(t *testing.T) {
	s := NewAccountStore()
	if _, err := s.Get("nope"); err != domain.ErrAccountNotFound {
		t.Errorf("Get() error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountStore_ListSortedByID(t *testing.T) {
	s := NewAccountStore()
	_ = s.Create(&domain.Account{AccountID: "bot-2"})
	_ = s.Create(&domain.Account{AccountID: "player"})
	_ = s.Create(&domain.Account{AccountID: "bot-1"})

	got := s.List()
	want := []string{"bot-1", "bot-2", "player"}
	if len(got) != len(want) {
		t.Fatalf("List() returned %d accounts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].AccountID != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i].AccountID, want[i])
		}
	}

	if !s.Exists("player") {
		t.Error("Exists(player) = false, want true")
	}
	if s.Exists("nope") {
		t.Error("Exists(nope) = true, want false")
	}
}
