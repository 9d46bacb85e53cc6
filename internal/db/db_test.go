package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer d.Close()

	// All three chat tables must exist.
	for _, table := range []string{"chat_sessions", "chat_messages", "query_log"} {
		var name string
		err := d.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "admitchat.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec("INSERT INTO chat_sessions (id) VALUES ('s1')"); err != nil {
		t.Errorf("insert failed: %v", err)
	}
}

func TestQueryLogUniquePerTurn(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec("INSERT INTO chat_sessions (id) VALUES ('s1')"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Exec(
		"INSERT INTO query_log (id, session_id, turn_index, query, status) VALUES ('q1', 's1', 0, 'base_fees(btech_cs, F).', 'ok')",
	); err != nil {
		t.Fatal(err)
	}

	// At most one executed query per turn.
	_, err = d.Exec(
		"INSERT INTO query_log (id, session_id, turn_index, query, status) VALUES ('q2', 's1', 0, 'base_fees(btech_ai, F).', 'ok')",
	)
	if err == nil {
		t.Error("expected unique constraint violation for duplicate turn index")
	}
}
