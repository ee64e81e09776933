package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/forPelevin/vid2article/internal/pipeline"
	"github.com/forPelevin/vid2article/internal/types"
)

func summaryRows(pr pipeline.PrepareResult, gr *pipeline.GenerateResult) [][]string {
	b := pr.Bundle
	source := "as provided"
	if b.TranscriptAIProcessed {
		source = "AI processed"
	}
	rows := [][]string{
		{"Run", pr.RunID},
		{"Transcript", fmt.Sprintf("%d words, %s", len(strings.Fields(b.Transcript)), source)},
		{"Title image", describeTitle(b.TitleImage)},
		{"Inline images", describeImages(b.InlineImages)},
		{"Review", pr.ReviewPath},
	}
	if gr != nil {
		rows = append(rows, []string{"Article", fmt.Sprintf("%s (%s)", gr.ArticlePath, humanBytes(gr.Size))})
	} else {
		rows = append(rows, []string{"Next", "vid2article generate " + pr.ReviewPath})
	}
	return rows
}

func describeTitle(m *types.Media) string {
	if m == nil {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", m.Name, humanBytes(len(m.Data)))
}

func describeImages(ms []types.Media) string {
	if len(ms) == 0 {
		return "none"
	}
	total := 0
	for _, m := range ms {
		total += len(m.Data)
	}
	return fmt.Sprintf("%d (%s)", len(ms), humanBytes(total))
}

func humanBytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func writeSummary(w io.Writer, rows [][]string) error {
	_, err := fmt.Fprintln(w, renderSummary(rows, isTerminal(w)))
	return err
}

func renderSummary(rows [][]string, styled bool) string {
	tw := table.NewWriter()
	if styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	for _, row := range rows {
		r := make(table.Row, 2)
		for i := 0; i < 2 && i < len(row); i++ {
			r[i] = row[i]
		}
		tw.AppendRow(r)
	}
	firstCol := table.ColumnConfig{Number: 1, Align: text.AlignLeft}
	if styled {
		firstCol.Colors = text.Colors{text.Bold}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		firstCol,
		{Number: 2, Align: text.AlignLeft},
	})
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
