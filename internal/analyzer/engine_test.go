package analyzer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codescope/internal/analyzer/extraction"
)

// Test Plan for the engine query surface:
// 1. AnalyzeStructure returns symbols and maps missing paths to ErrNotFound
// 2. Repeated identical queries over unchanged files return identical results
// 3. Invalidate after a content change makes queries reflect the new content
// 4. FindSymbol: the definition latest in source order wins a name collision
// 5. FindSymbols returns every definition; empty names are rejected
// 6. FindReferences matches exact identifiers only and flags definitions
// 7. WithPath scopes a query to one file
// 8. A malformed file never poisons queries about healthy files

func newTestEngine(t *testing.T, files map[string]string) (*Engine, *fakeProvider) {
	t.Helper()

	provider := newFakeProvider(files)
	engine, err := NewEngine(provider, provider, WithCacheCapacity(64))
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return engine, provider
}

func TestEngine_AnalyzeStructure(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"models.py": "class User:\n    def save(self):\n        pass\n",
	})
	ctx := context.Background()

	result, err := engine.AnalyzeStructure(ctx, "models.py")
	require.NoError(t, err)
	assert.Equal(t, "python", result.Language)
	require.Len(t, result.Symbols, 2)
	assert.Equal(t, extraction.KindClass, result.Symbols[0].Kind)
	assert.Equal(t, "User", result.Symbols[1].Parent)
	assert.False(t, result.ExtractedAt.IsZero())

	_, err = engine.AnalyzeStructure(ctx, "missing.py")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_QueryIdempotence(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"a.py": "class A:\n    def m(self):\n        pass\n",
		"b.py": "def helper():\n    return A()\n",
	})
	ctx := context.Background()

	first, err := engine.FindSymbols(ctx, "A")
	require.NoError(t, err)
	second, err := engine.FindSymbols(ctx, "A")
	require.NoError(t, err)

	fj, err := json.Marshal(first)
	require.NoError(t, err)
	sj, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, fj, sj, "identical queries over unchanged files must serialize identically")
}

func TestEngine_InvalidateReflectsNewContent(t *testing.T) {
	t.Parallel()

	engine, provider := newTestEngine(t, map[string]string{
		"a.py": "def target():\n    pass\n",
	})
	ctx := context.Background()

	sym, err := engine.FindSymbol(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 1, sym.LineStart)

	provider.set("a.py", "# moved\n\ndef target():\n    pass\n")
	engine.Invalidate("a.py")

	sym, err = engine.FindSymbol(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 3, sym.LineStart)
}

func TestEngine_LastDefinitionWins(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"dup.py": "def twice():\n    return 1\n\n\ndef twice():\n    return 2\n",
	})
	ctx := context.Background()

	sym, err := engine.FindSymbol(ctx, "twice")
	require.NoError(t, err)
	assert.Equal(t, 5, sym.LineStart, "the later definition shadows the earlier one")

	all, err := engine.FindSymbols(ctx, "twice")
	require.NoError(t, err)
	require.Len(t, all.Symbols, 2, "FindSymbols reports every definition")
	assert.Equal(t, 1, all.Symbols[0].LineStart)
	assert.Equal(t, 5, all.Symbols[1].LineStart)
}

func TestEngine_FindSymbolAcrossFiles(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"z.py": "def shared():\n    pass\n",
		"a.py": "def shared():\n    pass\n",
	})

	sym, err := engine.FindSymbol(context.Background(), "shared")
	require.NoError(t, err)
	assert.Equal(t, "z.py", sym.FilePath, "ties across files resolve to the lexically last path")
}

func TestEngine_FindSymbolErrors(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"a.py": "def f():\n    pass\n",
	})
	ctx := context.Background()

	_, err := engine.FindSymbol(ctx, "absent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.FindSymbol(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = engine.FindSymbols(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestEngine_FindReferences(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"defs.py": "def greet(name):\n    return name\n",
		"use.py":  "greeting = 1\n\nresult = greet(\"bob\")\nagain = greet(\"eve\")\n",
	})

	result, err := engine.FindReferences(context.Background(), "greet")
	require.NoError(t, err)
	assert.Empty(t, result.Failed)
	require.Len(t, result.References, 3, "greeting must not match greet")

	def := result.References[0]
	assert.Equal(t, "defs.py", def.FilePath)
	assert.Equal(t, 1, def.Line)
	assert.Equal(t, 5, def.Column)
	assert.True(t, def.IsDefinition)

	use := result.References[1]
	assert.Equal(t, "use.py", use.FilePath)
	assert.Equal(t, 3, use.Line)
	assert.False(t, use.IsDefinition)
	assert.Equal(t, `result = greet("bob")`, use.Context)

	assert.Equal(t, 4, result.References[2].Line)
}

func TestEngine_FindReferencesRedefinition(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"dup.py": "def twice():\n    return 1\n\n\ndef twice():\n    return twice\n",
	})

	result, err := engine.FindReferences(context.Background(), "twice")
	require.NoError(t, err)

	var defs, uses int
	for _, ref := range result.References {
		if ref.IsDefinition {
			defs++
		} else {
			uses++
		}
	}
	assert.Equal(t, 2, defs, "both definition sites flag as definitions")
	assert.Equal(t, 1, uses)
}

func TestEngine_FindReferencesShadowedOnDefinitionLine(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"shadow.py": "def f(f):\n    return f\n",
	})

	result, err := engine.FindReferences(context.Background(), "f")
	require.NoError(t, err)
	require.Len(t, result.References, 3)

	assert.True(t, result.References[0].IsDefinition, "the name token is the definition")
	assert.False(t, result.References[1].IsDefinition, "a parameter shadowing the name is a usage")
	assert.False(t, result.References[2].IsDefinition)
}

func TestEngine_FindReferencesNoMatches(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"a.py": "x = 1\n",
	})

	result, err := engine.FindReferences(context.Background(), "nothing_here")
	require.NoError(t, err)
	assert.Empty(t, result.References, "zero occurrences is a result, not an error")
	assert.Empty(t, result.Failed)
}

func TestEngine_WithPathScoping(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"a.py": "def scoped():\n    pass\n",
		"b.py": "def scoped():\n    pass\n",
	})
	ctx := context.Background()

	all, err := engine.FindSymbols(ctx, "scoped")
	require.NoError(t, err)
	assert.Len(t, all.Symbols, 2)

	scoped, err := engine.FindSymbols(ctx, "scoped", WithPath("b.py"))
	require.NoError(t, err)
	require.Len(t, scoped.Symbols, 1)
	assert.Equal(t, "b.py", scoped.Symbols[0].FilePath)

	refs, err := engine.FindReferences(ctx, "scoped", WithPath("a.py"))
	require.NoError(t, err)
	require.Len(t, refs.References, 1)
	assert.Equal(t, "a.py", refs.References[0].FilePath)
}

func TestEngine_MalformedSiblingIsolation(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"good.py":   "def fine():\n    pass\n",
		"broken.py": "def broken(:\n",
	})
	ctx := context.Background()

	sym, err := engine.FindSymbol(ctx, "fine")
	require.NoError(t, err)
	assert.Equal(t, "good.py", sym.FilePath)

	syms, err := engine.FindSymbols(ctx, "fine")
	require.NoError(t, err)
	require.Len(t, syms.Failed, 1, "the unparseable sibling is reported, not hidden")
	assert.Equal(t, "broken.py", syms.Failed[0].Path)
	assert.Len(t, syms.Symbols, 1)

	refs, err := engine.FindReferences(ctx, "fine")
	require.NoError(t, err)
	require.Len(t, refs.Failed, 1)
	assert.Equal(t, "broken.py", refs.Failed[0].Path)
	assert.Len(t, refs.References, 1)
}

func TestEngine_BuildIndex(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, map[string]string{
		"a.py": "class One:\n    pass\n",
		"b.py": "class Two:\n    pass\n",
	})

	ix, err := engine.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Size())
}

func TestEngine_SupportedLanguages(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, nil)
	assert.True(t, engine.Supported("x.py"))
	assert.False(t, engine.Supported("x.go"))
	assert.Contains(t, engine.Languages(), "ruby")
	assert.Contains(t, engine.Extensions(), ".rs")
}
