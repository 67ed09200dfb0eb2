package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/lockparse/pkg/lockfile"
)

const npmText = `{"name":"demo","lockfileVersion":3,"packages":{
	"":{"dependencies":{"a":"^1.0.0"}},
	"node_modules/a":{"version":"1.0.0","resolved":"https://r/a.tgz","integrity":"sha512-a","size":12,"os":["linux"]}
}}`

func parse(t *testing.T, text string) *lockfile.Document {
	t.Helper()
	doc, err := lockfile.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestJSONRoundTrip(t *testing.T) {
	doc := parse(t, npmText)

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Errorf("round trip changed the document:\n got  %+v\n want %+v", got, doc)
	}
}

func TestMarshalJSONIsDeterministic(t *testing.T) {
	doc := parse(t, npmText)
	a, err := MarshalJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := MarshalJSON(parse(t, npmText))
	if !bytes.Equal(a, b) {
		t.Error("encoding the same document twice should give identical bytes")
	}
	if !json.Valid(a) {
		t.Error("MarshalJSON produced invalid JSON")
	}
}

func TestReadJSONNormalizes(t *testing.T) {
	doc, err := UnmarshalJSON([]byte(`{"ecosystem":"yarn","ecosystemVersion":"1","packages":{"a@^1":{"version":"1.0.0"}}}`))
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	p := doc.Packages["a@^1"]
	if p.Dependencies == nil || p.PeerDependencies == nil {
		t.Error("ReadJSON should fill missing dependency maps")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []string{
		`not json`,
		`{"packages":{}}`,
	}
	for _, in := range tests {
		if _, err := UnmarshalJSON([]byte(in)); err == nil {
			t.Errorf("UnmarshalJSON(%q) should fail", in)
		}
	}
}

func TestWriteYAML(t *testing.T) {
	doc := parse(t, npmText)

	var buf bytes.Buffer
	if err := WriteYAML(doc, &buf); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"ecosystem: npm\n",
		"ecosystemVersion: \"3\"\n",
		"  node_modules/a:\n",
		"    version: 1.0.0\n",
		"    integrity: sha512-a\n",
		"    dependencies: {}\n",
		"      size: 12\n",
		"- linux\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFormats(t *testing.T) {
	doc := parse(t, npmText)
	for _, format := range []string{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := Write(doc, &buf, format); err != nil {
			t.Errorf("Write(%s): %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) produced no output", format)
		}
	}
	if err := Write(doc, &bytes.Buffer{}, "toml"); err == nil {
		t.Error("Write(toml) should fail")
	}
}

func TestExportImportFile(t *testing.T) {
	doc := parse(t, npmText)
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := ExportFile(doc, path, FormatJSON); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.Len() != doc.Len() || got.EcosystemVersion != "3" {
		t.Errorf("ImportJSON = %d packages, version %s", got.Len(), got.EcosystemVersion)
	}
}
