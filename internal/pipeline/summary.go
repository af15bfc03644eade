package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteSummary renders the per-table row counts and the run side channels
// of res to w.
func WriteSummary(w io.Writer, res *Result) {
	if res == nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("PIPELINE SUMMARY")
	t.AppendHeader(table.Row{"Table", "Rows", "Location"})

	total := 0
	for _, tr := range res.Tables {
		t.AppendRow(table.Row{tr.Name, tr.Rows, strings.Join(tr.Locations, "\n")})
		total += tr.Rows
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()

	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetStyle(table.StyleLight)
	s.AppendHeader(table.Row{"Check", "Value"})
	s.AppendRows([]table.Row{
		{"Attendance records read", res.Inputs.AttendanceRecords},
		{"Resolver entries", res.Stats.DirectoryNames},
		{"Resolver conflicts", res.Stats.DirectoryConflicts},
		{"Participants listed", res.Stats.Participation.Listed},
		{"Participants unresolved", res.Stats.Participation.Unresolved},
		{"Participation duplicates dropped", res.Stats.Participation.Duplicates},
		{"Learners without a name", res.Stats.Learners.Unnamed},
	})
	for _, st := range res.Stages {
		s.AppendRow(table.Row{fmt.Sprintf("Stage %s", st.Stage), st.Duration.Round(time.Millisecond).String()})
	}
	s.AppendRow(table.Row{"Run ID", res.RunID})
	s.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	s.Render()
}
