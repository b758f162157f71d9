package diffusion

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"impact-engine/internal/model"
)

// WriteTimelineCSV writes one row per (step, node), nodes sorted by name.
func WriteTimelineCSV(path string, timeline []model.FlowPropagation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTimeline(f, timeline)
}

func WriteTimeline(out io.Writer, timeline []model.FlowPropagation) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"step",
		"timestamp",
		"node",
		"value",
		"cumulative_change",
		"active_flows",
		"active_magnitude",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range timeline {
		total := 0.0
		for _, f := range p.ActiveFlows {
			total += f.Magnitude
		}
		nodes := make([]string, 0, len(p.NodeStates))
		for n := range p.NodeStates {
			nodes = append(nodes, n)
		}
		sort.Strings(nodes)

		for _, n := range nodes {
			st := p.NodeStates[n]
			row := []string{
				strconv.Itoa(p.Step),
				fmtTime(p.Timestamp),
				n,
				fmtFloat(st.Value),
				fmtFloat(st.CumulativeChange),
				strconv.Itoa(len(p.ActiveFlows)),
				fmtFloat(total),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
