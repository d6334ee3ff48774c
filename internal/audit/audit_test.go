package audit

import (
	"testing"

	"github.com/darmiel/ticketbind/internal/core"
)

func TestInMemoryAuditorGetRecent(t *testing.T) {
	a := NewInMemoryAuditor()
	for _, id := range []string{"1", "2", "3"} {
		if err := a.Log(core.AuditEntry{ID: id, Action: ActionTokenIssue}); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	recent, err := a.GetRecent(2)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "2" || recent[1].ID != "3" {
		t.Errorf("GetRecent(2) = %+v, want entries 2 and 3", recent)
	}

	// limit larger than the store returns everything
	all, _ := a.GetRecent(100)
	if len(all) != 3 {
		t.Errorf("GetRecent(100) len = %d, want 3", len(all))
	}
}

func TestInMemoryAuditorFind(t *testing.T) {
	a := NewInMemoryAuditor()
	_ = a.Log(core.AuditEntry{ID: "1", PrincipalID: "alice", Granted: true})
	_ = a.Log(core.AuditEntry{ID: "2", PrincipalID: "bob", Granted: false})
	_ = a.Log(core.AuditEntry{ID: "3", PrincipalID: "alice", Granted: false})

	denied, err := a.Find(func(e core.AuditEntry) bool { return !e.Granted }, 10)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(denied) != 2 || denied[0].ID != "2" || denied[1].ID != "3" {
		t.Errorf("Find(denied) = %+v, want entries 2 and 3", denied)
	}
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("req-123", ActionLoginFederated)
	if e.ID != "req-123" {
		t.Errorf("ID = %q, want req-123", e.ID)
	}
	if e.Action != ActionLoginFederated {
		t.Errorf("Action = %q, want %q", e.Action, ActionLoginFederated)
	}
	if e.Time.IsZero() {
		t.Error("Time should be set")
	}

	generated := NewEntry("", ActionTokenIssue)
	if generated.ID == "" {
		t.Error("ID should be generated when no correlation id is given")
	}
}
