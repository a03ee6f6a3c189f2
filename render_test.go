package chef_test

import (
	"bytes"
	"testing"

	require "github.com/lyraproj/dgo/dgo_test"
	"github.com/lyraproj/dgo/vf"

	"github.com/Tyrael/chef"
)

func TestRender_json(t *testing.T) {
	out := bytes.Buffer{}
	noError(t, chef.Render(chef.JSON, vf.Map(`a`, 1), &out))
	require.Equal(t, "{\"a\":1}\n", out.String())
}

func TestRender_jsonNull(t *testing.T) {
	out := bytes.Buffer{}
	noError(t, chef.Render(chef.JSON, nil, &out))
	require.Equal(t, "null\n", out.String())

	out.Reset()
	noError(t, chef.Render(chef.JSON, vf.Nil, &out))
	require.Equal(t, "null\n", out.String())
}

func TestRender_yaml(t *testing.T) {
	out := bytes.Buffer{}
	noError(t, chef.Render(chef.YAML, vf.Map(`a`, 1), &out))
	require.Equal(t, "a: 1\n", out.String())
}

func TestRender_yamlNull(t *testing.T) {
	out := bytes.Buffer{}
	noError(t, chef.Render(chef.YAML, nil, &out))
	require.Equal(t, "\n", out.String())
}

func TestRender_text(t *testing.T) {
	out := bytes.Buffer{}
	noError(t, chef.Render(chef.Text, vf.Value(42), &out))
	require.Equal(t, "42\n", out.String())
}

func TestRender_unknown(t *testing.T) {
	err := chef.Render(chef.RenderName(`bogus`), vf.Map(`a`, 1), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error")
	}
	require.Equal(t, `unknown rendering 'bogus'`, err.Error())
}
