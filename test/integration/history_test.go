package integration

import (
	"net/http"
	"testing"
)

type historyEntry struct {
	ID         string  `json:"id"`
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
	OK         bool    `json:"ok"`
	ErrorKind  string  `json:"errorKind"`
}

// TestHistory_RecordsEvaluations verifies that evaluations land in the
// SQLite history and can be read back by id.
func TestHistory_RecordsEvaluations(t *testing.T) {
	ok := evaluate(t, "11*11", true)
	if ok.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", ok.Status)
	}
	failed := evaluate(t, "1/0", true)
	if failed.Status != http.StatusUnprocessableEntity || failed.ErrorState != "OUT_OF_RANGE" {
		t.Fatalf("expected 422 OUT_OF_RANGE, got %d %s", failed.Status, failed.ErrorState)
	}

	var list struct {
		Entries []historyEntry `json:"entries"`
	}
	if code := getJSON(t, apiURL("history?limit=2"), &list); code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", code)
	}
	if len(list.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list.Entries))
	}
	newest, older := list.Entries[0], list.Entries[1]
	if newest.Expression != "1/0" || newest.OK || newest.ErrorKind != "DomainError" {
		t.Errorf("newest entry = %+v", newest)
	}
	if older.Expression != "11*11" || !older.OK || older.Value != 121 {
		t.Errorf("older entry = %+v", older)
	}

	var got historyEntry
	if code := getJSON(t, apiURL("history/"+older.ID), &got); code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", code)
	}
	if got.Expression != "11*11" {
		t.Errorf("get = %+v", got)
	}
}

// TestHistory_PreviewsAreNotRecorded verifies record=false.
func TestHistory_PreviewsAreNotRecorded(t *testing.T) {
	evaluate(t, "12345*0", false)

	var list struct {
		Entries []historyEntry `json:"entries"`
	}
	getJSON(t, apiURL("history"), &list)
	for _, e := range list.Entries {
		if e.Expression == "12345*0" {
			t.Fatal("preview evaluation was recorded")
		}
	}
}
