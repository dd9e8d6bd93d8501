package document

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeFieldNames(t *testing.T) {
	doc := &Document{
		Blocks: []Block{
			{ID: 1, Title: "A", Content: "x^2", X: 10, Y: 20, Width: 150, Height: 80, Color: "#ffffff", Locked: true},
		},
		Clusters: []Cluster{
			{ID: 1, Title: "C", Color: "#ffeeaa", BlockIDs: []int{1}, Locked: false},
		},
		Connections: []Connection{
			{StartBlock: 1, StartAnchor: "right", EndBlock: 2, EndAnchor: "left"},
		},
	}
	data, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, field := range []string{
		`"blocks"`, `"clusters"`, `"connections"`,
		`"id"`, `"title"`, `"content"`, `"x"`, `"y"`, `"width"`, `"height"`, `"color"`, `"locked"`,
		`"block_ids"`,
		`"start_block_id"`, `"start_anchor"`, `"end_block_id"`, `"end_anchor"`,
	} {
		if !strings.Contains(text, field) {
			t.Errorf("encoded document missing field %s", field)
		}
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	data, err := Encode(&Document{})
	if err != nil {
		t.Fatal(err)
	}
	// Empty sequences must serialize as arrays, not null.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"blocks", "clusters", "connections"} {
		if string(raw[key]) == "null" {
			t.Errorf("%s serialized as null", key)
		}
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"blocks": [`)); err == nil {
		t.Error("malformed JSON decoded without error")
	}
}

func TestFileRoundTrip(t *testing.T) {
	doc := &Document{
		Blocks: []Block{
			{ID: 3, Title: "Block", Content: "", X: 1.5, Y: -2.25, Width: 100, Height: 50, Color: "#abcdef"},
		},
		Clusters:    []Cluster{},
		Connections: []Connection{},
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := Save(path, doc); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, doc) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, doc)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
