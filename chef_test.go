package chef_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	require "github.com/lyraproj/dgo/dgo_test"
	"github.com/lyraproj/dgo/vf"

	"github.com/Tyrael/chef"
	"github.com/Tyrael/chef/merge"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func noError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoad_yaml(t *testing.T) {
	path := writeFile(t, `doc.yaml`, "a: 1\nlist:\n- x\n")
	v, err := chef.Load(path)
	noError(t, err)
	require.Equal(t, vf.Map(`a`, 1, `list`, vf.Values(`x`)), v)
}

func TestLoad_json(t *testing.T) {
	path := writeFile(t, `doc.json`, `{"a": 1, "list": ["x"]}`)
	v, err := chef.Load(path)
	noError(t, err)
	require.Equal(t, vf.Map(`a`, 1, `list`, vf.Values(`x`)), v)
}

func TestLoad_toml(t *testing.T) {
	path := writeFile(t, `doc.toml`, "port = 8080\n\n[server]\nhost = \"example.com\"\n")
	v, err := chef.Load(path)
	noError(t, err)
	require.Equal(t, vf.Map(`port`, 8080, `server`, vf.Map(`host`, `example.com`)), v)
}

func TestLoad_unsupportedExtension(t *testing.T) {
	path := writeFile(t, `doc.ini`, "a=1\n")
	_, err := chef.Load(path)
	if err == nil || !strings.Contains(err.Error(), `not in a supported format`) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestLoadReader(t *testing.T) {
	v, err := chef.LoadReader(strings.NewReader(`{"a": 1}`), `json`)
	noError(t, err)
	require.Equal(t, vf.Map(`a`, 1), v)

	v, err = chef.LoadReader(strings.NewReader("a: 1\n"), `yaml`)
	noError(t, err)
	require.Equal(t, vf.Map(`a`, 1), v)
}

func TestLoadReader_unsupportedFormat(t *testing.T) {
	_, err := chef.LoadReader(strings.NewReader(`a=1`), `ini`)
	if err == nil {
		t.Fatal("expected error")
	}
	require.Equal(t, `'ini' is not a supported format (yaml, json or toml)`, err.Error())
}

func TestMergeAndRender(t *testing.T) {
	base := writeFile(t, `base.yaml`, "a: 1\nlist:\n- x\n")
	overlay := writeFile(t, `overlay.json`, `{"b": 2, "list": ["y"]}`)

	out := bytes.Buffer{}
	opts := &chef.CommandOptions{RenderAs: `json`}
	noError(t, chef.MergeAndRender(opts, []string{base, overlay}, &out))
	require.Equal(t, "{\"a\":1,\"list\":[\"x\",\"y\"],\"b\":2}\n", out.String())
}

func TestMergeAndRender_defaultYAML(t *testing.T) {
	path := writeFile(t, `doc.yaml`, "a: 1\n")
	out := bytes.Buffer{}
	noError(t, chef.MergeAndRender(&chef.CommandOptions{}, []string{path}, &out))
	require.Equal(t, "a: 1\n", out.String())
}

func TestMergeAndRender_knockout(t *testing.T) {
	base := writeFile(t, `base.yaml`, "list:\n- a\n- b\n")
	overlay := writeFile(t, `overlay.yaml`, "list:\n- '!merge:a'\n")

	ko := `!merge`
	out := bytes.Buffer{}
	opts := &chef.CommandOptions{KnockoutPrefix: &ko, RenderAs: `json`}
	noError(t, chef.MergeAndRender(opts, []string{base, overlay}, &out))
	require.Equal(t, "{\"list\":[\"b\"]}\n", out.String())
}

func TestMergeAndRender_noDocuments(t *testing.T) {
	err := chef.MergeAndRender(&chef.CommandOptions{}, nil, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error")
	}
	require.Equal(t, `at least one document is required`, err.Error())
}

func TestMergeAndRender_invalidOptions(t *testing.T) {
	path := writeFile(t, `doc.yaml`, "a: 1\n")
	empty := ``
	err := chef.MergeAndRender(&chef.CommandOptions{KnockoutPrefix: &empty}, []string{path}, &bytes.Buffer{})
	if !errors.Is(err, merge.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}
