package cli

import (
	"encoding/json"
	"fmt"
	"io"

	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
)

type outcomeJSON struct {
	Key     string           `json:"key"`
	Status  string           `json:"status"`
	Records []map[string]any `json:"records,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type resultJSON struct {
	Items     []outcomeJSON `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Cancelled int           `json:"cancelled"`
}

func printResult(w io.Writer, result dombatch.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toJSON(result))
	case "pretty", "":
		printPretty(w, result)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func toJSON(result dombatch.Result) resultJSON {
	out := resultJSON{
		Items:     make([]outcomeJSON, result.Len()),
		Succeeded: result.Succeeded(),
		Failed:    result.Failed(),
		Cancelled: result.Cancelled(),
	}
	for i, o := range result.Outcomes() {
		item := outcomeJSON{Key: o.Key(), Status: string(o.Status())}
		if o.OK() {
			for _, rec := range o.Item().Records() {
				item.Records = append(item.Records, rec)
			}
		} else if o.Err() != nil {
			item.Error = o.Err().Error()
		}
		out.Items[i] = item
	}
	return out
}

func printPretty(w io.Writer, result dombatch.Result) {
	for _, o := range result.Outcomes() {
		switch o.Status() {
		case dombatch.StatusOK:
			fmt.Fprintf(w, "- [OK] %s (%d record(s))\n", o.Key(), o.Item().Len())
		case dombatch.StatusCancelled:
			fmt.Fprintf(w, "- [CANCELLED] %s: %v\n", o.Key(), o.Err())
		default:
			fmt.Fprintf(w, "- [FAIL] %s: %v\n", o.Key(), o.Err())
		}
	}
	fmt.Fprintf(w, "\n%d ok / %d failed / %d cancelled\n",
		result.Succeeded(), result.Failed(), result.Cancelled())
}
