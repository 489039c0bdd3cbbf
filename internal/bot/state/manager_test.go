package state

import (
	"testing"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
)

func TestUserState(t *testing.T) {
	m := NewManager()
	if got := m.GetUserState(1); got != None {
		t.Fatalf("default state = %q", got)
	}
	m.SetUserState(1, WaitingForSearch)
	if got := m.GetUserState(1); got != WaitingForSearch {
		t.Fatalf("state = %q", got)
	}
	if got := m.GetUserState(2); got != None {
		t.Fatalf("other user state = %q", got)
	}
	m.ClearUserState(1)
	if got := m.GetUserState(1); got != None {
		t.Fatalf("cleared state = %q", got)
	}
}

func TestPendingSelection(t *testing.T) {
	m := NewManager()
	m.AddPending(1,
		domain.PendingFood{ID: "a", Food: domain.NewFood{Name: "Rice"}},
		domain.PendingFood{ID: "b", Food: domain.NewFood{Name: "Chicken"}},
		domain.PendingFood{ID: "c", Food: domain.NewFood{Name: "Salad"}},
	)

	if !m.RemovePending(1, "b") {
		t.Fatal("RemovePending(b) = false")
	}
	if m.RemovePending(1, "b") {
		t.Fatal("second RemovePending(b) = true")
	}

	got := m.Pending(1)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("pending = %+v", got)
	}

	got[0].ID = "mutated"
	if m.Pending(1)[0].ID != "a" {
		t.Fatal("Pending must return a copy")
	}

	m.ClearPending(1)
	if len(m.Pending(1)) != 0 {
		t.Fatal("selection not cleared")
	}
}

func TestResults(t *testing.T) {
	m := NewManager()
	m.SetResults(1, []domain.FoodEntry{{Label: "Egg"}, {Label: "Eggplant"}})

	if e, ok := m.Result(1, 1); !ok || e.Label != "Eggplant" {
		t.Fatalf("Result(1) = %+v, %v", e, ok)
	}
	for _, i := range []int{-1, 2} {
		if _, ok := m.Result(1, i); ok {
			t.Fatalf("Result(%d) should be out of range", i)
		}
	}
	if _, ok := m.Result(2, 0); ok {
		t.Fatal("results leaked across users")
	}
}
