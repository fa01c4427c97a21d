package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

func week() *schedule.Week {
	rows := []schedule.Row{
		schedule.NewRow(0, map[string]schedule.Value{"HORARIOSEG": schedule.Text("23:30"), "ORDEMSEG": schedule.Number(1)}),
		schedule.NewRow(1, map[string]schedule.Value{"HORARIOSEG": schedule.Text("00:15"), "ORDEMSEG": schedule.Number(2)}),
		schedule.NewRow(2, map[string]schedule.Value{"HORARIOSEX": schedule.Text("07:00"), "ORDEMSEX": schedule.Number(1)}),
	}
	tbl := schedule.NewTable([]string{"HORARIOSEG", "ORDEMSEG", "HORARIOSEX", "ORDEMSEX"}, rows)
	return schedule.NormalizeWeek(tbl, schedule.DefaultOptions())
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, week(), "Setor PR18"))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Setor PR18")
	assert.Contains(t, out, PointsSeries)
	assert.Contains(t, out, GapsSeries)
	assert.Contains(t, out, "Linha do tempo")
}

func TestRender_EmptyWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, schedule.NormalizeWeek(nil, schedule.DefaultOptions()), "Vazio"))
	assert.Contains(t, buf.String(), "Vazio")
}

func TestHours(t *testing.T) {
	assert.Equal(t, 23.5, hours(23*60+30))
	assert.Equal(t, 24.25, hours(24*60+15))
	assert.Equal(t, 0.0, hours(0))
}
