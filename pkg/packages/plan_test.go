package packages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/header"
	"github.com/boutproject/boutpkg/pkg/recipe"
)

func newPlanner(t *testing.T, opts ...Option) *Planner {
	t.Helper()
	c := newCatalog(t, opts...)
	return NewPlanner(c, recipe.NewResolver(recipe.WithIndex(c)), "test")
}

func stepNames(p *BuildPlan) []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Package
	}
	return out
}

func TestPlanHermes3(t *testing.T) {
	plan, err := newPlanner(t).Plan(context.Background(), recipe.Request{Package: "hermes-3"})
	require.NoError(t, err)

	assert.Equal(t, header.KindBuildPlan, plan.Kind)
	assert.Equal(t, "hermes-3", plan.Root)
	assert.Equal(t, []string{"boutpp", "hermes-3"}, stepNames(plan))

	bout, ok := plan.Step("boutpp")
	require.True(t, ok)
	assert.Equal(t, "master", bout.Version.Identifier)
	assert.Empty(t, bout.DependsOn)

	hermes, ok := plan.Step("Hermes-3")
	require.True(t, ok)
	assert.Equal(t, []string{"boutpp"}, hermes.DependsOn)
	d, ok := hermes.Definition("HERMES_BUILD_BOUT")
	require.True(t, ok)
	assert.Equal(t, "OFF", d.Value)
}

func TestPlanLeaf(t *testing.T) {
	plan, err := newPlanner(t).Plan(context.Background(), recipe.Request{Package: "boutpp", Version: "5.1.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"boutpp"}, stepNames(plan))
	assert.Equal(t, "5.1.0", plan.Steps[0].Version.Identifier)
}

func TestPlanLegacyBuildsBoutInTree(t *testing.T) {
	plan, err := newPlanner(t).Plan(context.Background(), recipe.Request{Package: "hermes-3", Revision: RevisionLegacy})
	require.NoError(t, err)
	assert.Equal(t, []string{"hermes-3"}, stepNames(plan))
}

// app depends on lib at a range and with a variant; tool depends on lib too.
func planFixture() []Option {
	lib := func(recipe.PackageIndex) *recipe.Package {
		return recipe.NewBuilder("lib").
			AddVersion(recipe.TagVersion("1.0.0", "v1.0.0")).
			AddVersion(recipe.TagVersion("2.0.0", "v2.0.0")).
			AddVersion(recipe.TagVersion("3.0.0", "v3.0.0")).
			AddVariant(recipe.BoolVariant("fast", false, "")).
			AddVariantMapping("LIB_FAST", "fast").
			MustBuild()
	}
	tool := func(recipe.PackageIndex) *recipe.Package {
		return recipe.NewBuilder("tool").
			AddVersion(recipe.TagVersion("1.0.0", "v1.0.0")).
			AddVariant(recipe.BoolVariant("slow", false, "")).
			AddDependency("lib@:2", recipe.When("~slow")).
			AddDependency("lib~fast@:2", recipe.When("+slow")).
			MustBuild()
	}
	app := func(recipe.PackageIndex) *recipe.Package {
		return recipe.NewBuilder("app").
			AddVersion(recipe.TagVersion("1.0.0", "v1.0.0")).
			AddVariant(recipe.BoolVariant("withtool", true, "")).
			AddDependency("lib+fast@2:").
			AddDependency("tool", recipe.When("+withtool")).
			AddDependency("zlib").
			MustBuild()
	}
	return []Option{WithoutBuiltins(), WithKnownPackages("zlib"), WithRecipes(lib, tool, app)}
}

func TestPlanSharedDependency(t *testing.T) {
	p := newPlanner(t, planFixture()...)

	plan, err := p.Plan(context.Background(), recipe.Request{Package: "app"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lib", "tool", "app"}, stepNames(plan))

	lib, _ := plan.Step("lib")
	// 2: from app and :2 from tool leave only 2.0.0
	assert.Equal(t, "2.0.0", lib.Version.Identifier)
	fast, _ := lib.Definition("LIB_FAST")
	assert.Equal(t, "ON", fast.Value)

	app, _ := plan.Step("app")
	assert.Equal(t, []string{"lib", "tool"}, app.DependsOn)
}

func TestPlanWithoutOptionalDependency(t *testing.T) {
	p := newPlanner(t, planFixture()...)
	plan, err := p.Plan(context.Background(), recipe.Request{Package: "app", Variants: recipe.Selection{"withtool": false}})
	require.NoError(t, err)
	assert.Equal(t, []string{"lib", "app"}, stepNames(plan))

	lib, _ := plan.Step("lib")
	assert.Equal(t, "3.0.0", lib.Version.Identifier)
}

func TestPlanErrors(t *testing.T) {
	conflicting := func(recipe.PackageIndex) *recipe.Package {
		return recipe.NewBuilder("strict").
			AddVersion(recipe.TagVersion("1.0.0", "v1.0.0")).
			AddDependency("lib@3:").
			AddDependency("lib@:1").
			MustBuild()
	}
	variantClash := func(recipe.PackageIndex) *recipe.Package {
		return recipe.NewBuilder("clash").
			AddVersion(recipe.TagVersion("1.0.0", "v1.0.0")).
			AddDependency("lib+fast").
			AddDependency("lib~fast").
			MustBuild()
	}
	opts := append(planFixture(), WithRecipes(conflicting, variantClash))
	p := newPlanner(t, opts...)

	tests := []struct {
		name string
		req  recipe.Request
		code bperrors.ErrorCode
	}{
		{"unknown root", recipe.Request{Package: "nope"}, bperrors.ErrCodeNotFound},
		{"root variant", recipe.Request{Package: "app", Variants: recipe.Selection{"bogus": true}}, bperrors.ErrCodeUnknownVariant},
		{"tool with slow lib", recipe.Request{Package: "tool", Variants: recipe.Selection{"slow": true}}, ""},
		{"no version satisfies both", recipe.Request{Package: "strict"}, bperrors.ErrCodeNotFound},
		{"variant requirements clash", recipe.Request{Package: "clash"}, bperrors.ErrCodeConflictingDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(context.Background(), tt.req)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, bperrors.CodeOf(err))
		})
	}
}

func TestPlanLateVariantClash(t *testing.T) {
	// app wants lib+fast and tool+slow wants lib~fast; the clash only shows
	// once tool is resolved.
	app := func(recipe.PackageIndex) *recipe.Package {
		return recipe.NewBuilder("app2").
			AddVersion(recipe.TagVersion("1.0.0", "v1.0.0")).
			AddDependency("lib+fast").
			AddDependency("tool+slow").
			MustBuild()
	}
	p := newPlanner(t, append(planFixture(), WithRecipes(app))...)

	_, err := p.Plan(context.Background(), recipe.Request{Package: "app2"})
	require.Error(t, err)
	assert.Equal(t, bperrors.ErrCodeConflictingDefinition, bperrors.CodeOf(err))
}

func TestPlanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newPlanner(t).Plan(ctx, recipe.Request{Package: "boutpp"})
	require.Error(t, err)
	assert.Equal(t, bperrors.ErrCodeTimeout, bperrors.CodeOf(err))
}

func TestBuildOrderDetectsCycle(t *testing.T) {
	nodes := map[string]*planNode{
		"a": {key: "a", deps: []string{"b"}},
		"b": {key: "b", deps: []string{"a"}},
	}
	_, err := buildOrder(nodes)
	require.Error(t, err)
	assert.Equal(t, bperrors.ErrCodeInvalidValue, bperrors.CodeOf(err))
}
