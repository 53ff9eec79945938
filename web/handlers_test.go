package web

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mogaika/cache_model_browser/vfs"

	_ "github.com/mogaika/cache_model_browser/pack/frame"
	_ "github.com/mogaika/cache_model_browser/pack/model"
)

// single flat triangle (0,0,0) (10,0,0) (0,10,0) in new layout
var triangleModel = []byte{
	// vertex flags
	0x00, 0x01, 0x03,
	// triangle types
	0x01,
	// vertex ids
	0x40, 0x41, 0x41,
	// colors
	0x00, 0x00,
	// x, y deltas
	0x4a, 0x36,
	0x4a,
	// footer
	0x00, 0x03, 0x00, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x02, 0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00,
	0xff, 0xff,
}

func newTestServer(t *testing.T) *httptest.Server {
	dir := t.TempDir()

	files := map[string][]byte{
		"1.model":   triangleModel,
		"notes.txt": []byte("hello"),
	}
	for name, data := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), data, 0666); err != nil {
			t.Fatal(err)
		}
	}

	ServerDirectory = vfs.NewDirectoryDriver(dir)
	srv := httptest.NewServer(NewRouter(""))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, []byte) {
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("GET %s body: %v", path, err)
	}
	return resp.StatusCode, body
}

func TestPackList(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv, "/json/pack")
	if code != http.StatusOK {
		t.Fatalf("/json/pack code %d: %s", code, body)
	}

	var entries []packEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatal(err)
	}
	expected := []packEntry{
		{Name: "1.model", Size: int64(len(triangleModel)), Decoder: true},
		{Name: "notes.txt", Size: 5, Decoder: false},
	}
	if len(entries) != len(expected) {
		t.Fatalf("entries=%v; expected %v", entries, expected)
	}
	for i := range expected {
		if entries[i] != expected[i] {
			t.Errorf("entries[%d]=%v; expected %v", i, entries[i], expected[i])
		}
	}
}

func TestPackFileJson(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv, "/json/pack/1.model")
	if code != http.StatusOK {
		t.Fatalf("code %d: %s", code, body)
	}

	var m struct {
		Id        int
		Format    string
		Vertices  []struct{ X, Y, Z int32 }
		Triangles []struct{ A, B, C int32 }
	}
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatal(err)
	}
	if m.Id != 1 || m.Format != "new" {
		t.Errorf("id=%d format=%q; expected 1 new", m.Id, m.Format)
	}
	if len(m.Vertices) != 3 || m.Vertices[2].Y != 10 {
		t.Errorf("vertices=%v; expected 3 with last (0,10,0)", m.Vertices)
	}
	if len(m.Triangles) != 1 || m.Triangles[0].C != 2 {
		t.Errorf("triangles=%v; expected [{0 1 2}]", m.Triangles)
	}
}

func TestPackFileErrors(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{
		"/json/pack/missing.model",
		"/json/pack/notes.txt",
		"/action/1.model/unknown",
	} {
		if code, body := get(t, srv, path); code != http.StatusInternalServerError {
			t.Errorf("GET %s code=%d; expected 500 (%s)", path, code, body)
		} else if !bytes.Contains(body, []byte(`"error"`)) {
			t.Errorf("GET %s body=%s; expected json error", path, body)
		}
	}
}

func TestPackFileActions(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv, "/action/1.model/obj")
	if code != http.StatusOK {
		t.Fatalf("obj code %d: %s", code, body)
	}
	if !strings.Contains(string(body), "f ") {
		t.Errorf("obj export has no faces:\n%s", body)
	}

	code, body = get(t, srv, "/action/1.model/gltf")
	if code != http.StatusOK || !bytes.HasPrefix(body, []byte("glTF")) {
		t.Errorf("gltf code=%d size=%d; expected 200 glb", code, len(body))
	}
}

func TestPackFileDump(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv, "/dump/pack/1.model")
	if code != http.StatusOK || !bytes.Equal(body, triangleModel) {
		t.Errorf("dump code=%d body=%x; expected %x", code, body, triangleModel)
	}

	code, body = get(t, srv, "/spew/pack/1.model")
	if code != http.StatusOK || !strings.Contains(string(body), "Vertices") {
		t.Errorf("spew code=%d body=%s", code, body)
	}
}
