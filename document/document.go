// Package document defines the on-disk JSON format for skema diagrams
// and the codec for it. The format is three flat sequences; all
// cross-references are integer block ids, resolved (and silently
// dropped when dangling) at load time by the editor core.
package document

import (
	"encoding/json"
	"fmt"
	"os"
)

// Block is the persisted form of a scene block. X and Y are the
// resolved scene-space top-left coordinates at save time, regardless of
// cluster membership.
type Block struct {
	ID      int     `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	Locked  bool    `json:"locked"`
}

// Cluster is the persisted form of a grouping. Membership is by block
// id; the bounding rectangle is derived on load and not persisted.
type Cluster struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Color    string `json:"color"`
	BlockIDs []int  `json:"block_ids"`
	Locked   bool   `json:"locked"`
}

// Connection is the persisted form of a committed connection. Pending
// connections are never written.
type Connection struct {
	StartBlock  int    `json:"start_block_id"`
	StartAnchor string `json:"start_anchor"`
	EndBlock    int    `json:"end_block_id"`
	EndAnchor   string `json:"end_anchor"`
}

// Document is a complete serialized diagram.
type Document struct {
	Blocks      []Block      `json:"blocks"`
	Clusters    []Cluster    `json:"clusters"`
	Connections []Connection `json:"connections"`
}

// Encode marshals the document as indented JSON. Nil sequences are
// written as empty arrays so an empty diagram still round-trips.
func Encode(d *Document) ([]byte, error) {
	out := *d
	if out.Blocks == nil {
		out.Blocks = []Block{}
	}
	if out.Clusters == nil {
		out.Clusters = []Cluster{}
	}
	if out.Connections == nil {
		out.Connections = []Connection{}
	}
	return json.MarshalIndent(&out, "", "  ")
}

// Decode parses a serialized document. It fails on malformed JSON but
// never on dangling references; those are resolved later, at load.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &d, nil
}

// Load reads and parses a document file. The caller applies it to the
// in-memory model only after this succeeds, so a broken file never
// partially overwrites the current diagram.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Decode(data)
}

// Save writes the document to a file.
func Save(path string, d *Document) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
