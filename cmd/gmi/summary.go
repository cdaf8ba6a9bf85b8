package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"gmi/internal/build"
	"io"
)

func renderSummary(w io.Writer, res *build.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Ghost export")
	t.AppendRows([]table.Row{
		{"Output", res.Output},
		{"Posts", res.Posts},
		{"Tags", res.Tags},
		{"Users", res.Users},
	})
	if res.Images > 0 {
		t.AppendRow(table.Row{"Images", res.Images})
	}
	if res.Excluded > 0 {
		t.AppendRow(table.Row{"Excluded", res.Excluded})
	}
	t.AppendRow(table.Row{"Skipped", res.Skipped()})
	t.Render()

	if len(res.Warnings) == 0 {
		return
	}
	sk := table.NewWriter()
	sk.SetOutputMirror(w)
	sk.SetStyle(table.StyleLight)
	sk.AppendHeader(table.Row{"Skipped file", "Reason"})
	for _, warn := range res.Warnings {
		sk.AppendRow(table.Row{warn.Path, warn.Msg})
	}
	sk.Render()
}
