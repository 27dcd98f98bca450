package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vx/internal/core"
	"vx/internal/types"
)

func TestBuiltinCatalogKnowsCoreRuntimes(t *testing.T) {
	c := New()

	for _, name := range []string{"node", "npm", "python", "uv", "uvx", "cargo", "go", "git"} {
		require.True(t, c.IsKnown(name), "expected builtin runtime %s", name)
	}
}

func TestAliasResolution(t *testing.T) {
	c := New()

	canonical, ok := c.ResolveName("nodejs")
	require.True(t, ok)
	require.Equal(t, "node", canonical)

	canonical, ok = c.ResolveName("k8s")
	require.True(t, ok)
	require.Equal(t, "kubectl", canonical)

	_, ok = c.ResolveName("no-such-tool")
	require.False(t, ok)
}

func TestGetSpecByAlias(t *testing.T) {
	c := New()

	spec, ok := c.GetSpec("golang")
	require.True(t, ok)
	require.Equal(t, "go", spec.Name)
}

func TestUvxSpecShape(t *testing.T) {
	c := New()

	spec, ok := c.GetSpec("uvx")
	require.True(t, ok)
	require.Equal(t, "uv", spec.ExecutableName())
	require.Equal(t, []string{"tool", "run"}, spec.CommandPrefix)

	required := spec.RequiredDependencies()
	require.Len(t, required, 1)
	require.Equal(t, "uv", required[0].Runtime)
}

func TestProvidedByDependencies(t *testing.T) {
	c := New()

	npm, ok := c.GetSpec("npm")
	require.True(t, ok)
	require.NotEmpty(t, npm.Dependencies)
	require.Equal(t, "node", npm.Dependencies[0].ProvidedBy)
}

func TestMsvcIsWindowsOnly(t *testing.T) {
	c := New()

	spec, ok := c.GetSpec("msvc")
	require.True(t, ok)
	require.False(t, spec.SupportsPlatform(types.Platform{OS: "linux", Arch: "amd64"}))
	require.True(t, spec.SupportsPlatform(types.Platform{OS: "windows", Arch: "amd64"}))
}

func TestKnownToolsSorted(t *testing.T) {
	c := New()

	tools := c.KnownTools()
	require.NotEmpty(t, tools)
	for i := 1; i < len(tools); i++ {
		require.Less(t, tools[i-1], tools[i])
	}
}

func TestRegisterReplaces(t *testing.T) {
	c := Empty()
	c.Register(types.ToolSpec{Name: "demo", Description: "first"})
	c.Register(types.ToolSpec{Name: "demo", Description: "second"})

	spec, ok := c.GetSpec("demo")
	require.True(t, ok)
	require.Equal(t, "second", spec.Description)
}

func TestSuggest(t *testing.T) {
	c := New()

	require.Contains(t, c.Suggest("nod"), "node")
	require.Contains(t, c.Suggest("pithon"), "python")
	require.Empty(t, c.Suggest("completely-unrelated-name"))
}

func TestBuiltinSpecsValidate(t *testing.T) {
	c := New()

	for _, name := range c.KnownTools() {
		spec, ok := c.GetSpec(name)
		require.True(t, ok)
		require.NoError(t, core.ValidateToolSpec(t.Context(), spec), "builtin spec %s", name)
	}
}
