package frame

import (
	"fmt"
	"net/http"

	"github.com/mogaika/cache_model_browser/webutils"
)

func (f *Frame) HttpAction(w http.ResponseWriter, r *http.Request, action string) {
	switch action {
	case "yaml":
		webutils.WriteYamlFile(w, f, fmt.Sprintf("%d.frame", f.Id))
	default:
		webutils.WriteError(w, fmt.Errorf("Unknown frame action %q", action))
	}
}

func (fm *FrameMap) HttpAction(w http.ResponseWriter, r *http.Request, action string) {
	switch action {
	case "yaml":
		webutils.WriteFileHeaders(w, fmt.Sprintf("%d.framemap.yaml", fm.Id))
		if err := fm.SaveYAML(w); err != nil {
			webutils.WriteError(w, err)
		}
	default:
		webutils.WriteError(w, fmt.Errorf("Unknown framemap action %q", action))
	}
}
