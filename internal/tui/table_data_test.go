package tui

import (
	"testing"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

func TestDayRows_ObservationsFollowEntries(t *testing.T) {
	w := testWeek(t)
	d := schedule.Wednesday

	chrono := dayRows(w.Timelines[d], w.Days[d], viewChronological)
	byOrder := dayRows(w.Timelines[d], w.Days[d], viewByOrder)
	if len(chrono) != 2 || len(byOrder) != 2 {
		t.Fatalf("expected 2 rows per view, got %d and %d", len(chrono), len(byOrder))
	}

	// Same entry, same label, whatever the view
	if chrono[1][1] != byOrder[0][1] || chrono[1][5] != byOrder[0][5] {
		t.Errorf("entry label moved between views: %v vs %v", chrono[1], byOrder[0])
	}
	if chrono[0][5] != schedule.LabelEarliest {
		t.Errorf("first chronological label = %q, want %q", chrono[0][5], schedule.LabelEarliest)
	}
	if chrono[1][5] != schedule.LabelLatest {
		t.Errorf("last chronological label = %q, want %q", chrono[1][5], schedule.LabelLatest)
	}
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows(testWeek(t))
	if len(rows) != schedule.DaysPerWeek {
		t.Fatalf("expected %d rows, got %d", schedule.DaysPerWeek, len(rows))
	}

	tests := []struct {
		name string
		row  []string
		want []string
	}{
		{name: "crossing day", row: rows[schedule.Monday], want: []string{"SEG", "3", "0", "23:30", "00:45", "01:15", "SIM", "2", "SIM"}},
		{name: "order disagrees", row: rows[schedule.Wednesday], want: []string{"QUA", "2", "0", "08:00", "08:05", "00:05", "NÃO", "0", "NÃO"}},
		{name: "empty day", row: rows[schedule.Sunday], want: []string{"DOM", "0", "0", "", "", "", "", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.row) != len(summaryColumns) {
				t.Fatalf("row has %d cells, want %d", len(tt.row), len(summaryColumns))
			}
			for i := range tt.want {
				if tt.row[i] != tt.want[i] {
					t.Errorf("%s = %q, want %q", summaryColumns[i], tt.row[i], tt.want[i])
				}
			}
		})
	}
}

func TestTSV(t *testing.T) {
	got := tsv([]string{"A", "B"}, [][]string{{"1", "2"}, {"3", ""}})
	want := "A\tB\n1\t2\n3\t\n"
	if got != want {
		t.Errorf("tsv() = %q, want %q", got, want)
	}
}
