package diagram

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
)

const (
	liveEditBase = "https://mermaid.live/edit#"
	pngBase      = "https://mermaid.ink/img/"
)

// liveState is the editor state mermaid.live and mermaid.ink decode.
type liveState struct {
	Code          string `json:"code"`
	Mermaid       string `json:"mermaid,omitempty"`
	AutoSync      bool   `json:"autoSync"`
	Rough         bool   `json:"rough"`
	UpdateDiagram bool   `json:"updateDiagram"`
}

func encodeState(code, theme string) string {
	state := liveState{
		Code:          code,
		AutoSync:      true,
		UpdateDiagram: true,
	}
	if theme != "" {
		themeJSON, _ := json.Marshal(map[string]string{"theme": theme})
		state.Mermaid = string(themeJSON)
	}
	data, _ := json.Marshal(state)
	return "base64:" + base64.StdEncoding.EncodeToString(data)
}

// LiveEditURL returns a mermaid.live editor link for the diagram, in the
// dark theme.
func LiveEditURL(tasks stepgraph.Tasks, result *stepgraph.Result) string {
	return liveEditBase + encodeState(Mermaid(tasks, result), "dark")
}

// PNGURL returns a mermaid.ink link that renders the diagram as PNG.
func PNGURL(tasks stepgraph.Tasks, result *stepgraph.Result) string {
	return pngBase + encodeState(Mermaid(tasks, result), "") + "?type=png"
}

// ErrorPNGURL returns a traced PNG link for an error that wraps a
// *stepgraph.WorkflowError. ok is false for any other error.
//
//	if _, err := wf.Run(ctx, input); err != nil {
//	    if link, ok := diagram.ErrorPNGURL(err); ok {
//	        logger.Error("run failed", "error", err, "diagram", link)
//	    }
//	}
func ErrorPNGURL(err error) (string, bool) {
	var wfErr *stepgraph.WorkflowError
	if !errors.As(err, &wfErr) {
		return "", false
	}
	return PNGURL(wfErr.Tasks(), wfErr.Result), true
}
