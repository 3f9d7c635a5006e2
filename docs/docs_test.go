package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocRenders(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var parsed struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("rendered doc is not JSON: %v", err)
	}
	if parsed.Info.Title != "Station Monitor API" {
		t.Fatalf("title = %q", parsed.Info.Title)
	}
	if _, ok := parsed.Paths["/api/station-status/{station}"]; !ok {
		t.Fatalf("status route missing from paths")
	}
}
