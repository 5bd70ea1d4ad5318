package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/decorate"
	"github.com/yaklabco/mdlive/pkg/decorate/rules"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		rules.CheckboxID,
		rules.CodeBadgeID,
		rules.HTMLContentID,
		rules.HTMLTagsID,
		rules.ImageID,
		rules.StyledSpansID,
	}, rules.DefaultRegistry.IDs())
	assert.NotContains(t, rules.DefaultRegistry.DefaultIDs(), rules.StyledSpansID)
	assert.Len(t, rules.DefaultRegistry.DefaultIDs(), 5)

	for _, entry := range rules.DefaultRegistry.Entries() {
		rule, err := entry.New(rules.Env{Cache: decorate.NewCounterCache()}, nil)
		require.NoError(t, err, entry.ID)
		assert.Equal(t, entry.ID, rule.ID())
		assert.NotEmpty(t, rule.Description())
	}

	styled, ok := rules.DefaultRegistry.Get(rules.StyledSpansID)
	require.True(t, ok)
	assert.False(t, styled.Default)

	image, ok := rules.DefaultRegistry.Get(rules.ImageID)
	require.True(t, ok)
	assert.Equal(t, rules.ScopeBlock, image.Scope)
}

func TestRegistryBuild(t *testing.T) {
	t.Parallel()

	reg := rules.NewRegistry()
	rules.RegisterAll(reg)

	built, err := reg.Build([]string{rules.ImageID, rules.CheckboxID}, rules.Env{}, nil)
	require.NoError(t, err)
	require.Len(t, built, 2)
	assert.Equal(t, rules.ImageID, built[0].Rule.ID())
	assert.Equal(t, rules.ScopeBlock, built[0].Scope)
	assert.Equal(t, rules.ScopeInline, built[1].Scope)

	_, err = reg.Build([]string{"nope"}, rules.Env{}, nil)
	assert.ErrorContains(t, err, `unknown rule "nope"`)
}

func TestRegistryBuildPassesOptions(t *testing.T) {
	t.Parallel()

	reg := rules.NewRegistry()
	rules.RegisterAll(reg)

	opts := map[string]rules.Options{rules.CodeBadgeID: {"label_declared": true}}
	built, err := reg.Build([]string{rules.CodeBadgeID}, rules.Env{}, opts)
	require.NoError(t, err)

	got := inline(t, built[0].Rule, parseState(t, "```go\npackage main\n```\n\nend\n", -1))
	assert.Len(t, got, 1)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := rules.Options{"name": "x", "flag": true, "count": 3}

	assert.Equal(t, "x", opts.String("name", "d"))
	assert.Equal(t, "d", opts.String("count", "d"))
	assert.Equal(t, "d", opts.String("missing", "d"))
	assert.True(t, opts.Bool("flag", false))
	assert.True(t, opts.Bool("name", true))

	var none rules.Options
	assert.Equal(t, "d", none.String("name", "d"))
}

func TestParseScope(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]rules.Scope{"": rules.ScopeInline, "inline": rules.ScopeInline, "block": rules.ScopeBlock} {
		got, err := rules.ParseScope(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := rules.ParseScope("page")
	assert.Error(t, err)
	assert.Equal(t, "block", rules.ScopeBlock.String())
}
