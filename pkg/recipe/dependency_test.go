package recipe

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		version  string
		requires []Requirement
		wantErr  bool
	}{
		{in: "mpi", name: "mpi"},
		{in: "cmake@3.17:", name: "cmake", version: "3.17:"},
		{in: "py-boutdata@0.3.0:", name: "py-boutdata", version: "0.3.0:"},
		{
			in: "petsc+hypre+mpi~debug@3.7:3.23", name: "petsc", version: "3.7:3.23",
			requires: []Requirement{{"hypre", "true"}, {"mpi", "true"}, {"debug", "false"}},
		},
		{
			in: "sundials+mpi cstd=99", name: "sundials",
			requires: []Requirement{{"mpi", "true"}, {"cstd", "99"}},
		},
		{in: "", wantErr: true},
		{in: "+mpi", wantErr: true},
		{in: "a b", wantErr: true},
		{in: "a@1@2", wantErr: true},
		{in: "a@2:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDependency(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.version, d.Constraint.String())
			assert.Equal(t, tt.requires, d.Requires)
			assert.Equal(t, DefaultUsage, d.Usage)
			assert.Nil(t, d.When)
		})
	}
}

func TestDependencyOptions(t *testing.T) {
	d, err := ParseDependency("mpi", WithUsage(UsageRun, UsageBuild, UsageRun, UsageLink), When("+mpi"))
	require.NoError(t, err)
	assert.Equal(t, []UsageKind{UsageBuild, UsageLink, UsageRun}, d.Usage)
	assert.True(t, d.HasUsage(UsageRun))
	assert.False(t, d.HasUsage(UsageTest))
	assert.Equal(t, "+mpi", ConditionString(d.When))

	_, err = ParseDependency("mpi", WithUsage("install"))
	assert.Error(t, err)
	_, err = ParseDependency("mpi", When("mpi"))
	assert.Error(t, err)
}

func TestDependencyString(t *testing.T) {
	for _, s := range []string{"mpi", "cmake@3.17:", "petsc@3.7:3.23+hypre+mpi~debug", "sundials+mpi cstd=99"} {
		d, err := ParseDependency(s)
		require.NoError(t, err)
		assert.Equal(t, s, d.String())
	}
}

func TestDependencySelection(t *testing.T) {
	d, err := ParseDependency("petsc+hypre~debug scalar=real")
	require.NoError(t, err)
	want := Selection{"hypre": "true", "debug": "false", "scalar": "real"}
	if !reflect.DeepEqual(d.Selection(), want) {
		t.Errorf("Selection() = %v, want %v", d.Selection(), want)
	}
}

func TestParseUsageKind(t *testing.T) {
	k, err := ParseUsageKind(" Run ")
	require.NoError(t, err)
	assert.Equal(t, UsageRun, k)

	_, err = ParseUsageKind("install")
	assert.Error(t, err)
}

func TestDependencyDecode(t *testing.T) {
	d, err := ParseDependency("petsc+mpi@:3.17", WithUsage(UsageBuild, UsageLink), When("+petsc@5.0.0"))
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"when":"+petsc@5.0.0"`)

	var fromJSON DependencySpec
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, d.String(), fromJSON.String())
	assert.Equal(t, ConditionString(d.When), ConditionString(fromJSON.When))
	assert.Equal(t, d.Usage, fromJSON.Usage)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	var fromYAML DependencySpec
	require.NoError(t, yaml.Unmarshal(out, &fromYAML))
	assert.Equal(t, d.String(), fromYAML.String())
	assert.Equal(t, ConditionString(d.When), ConditionString(fromYAML.When))

	var plain DependencySpec
	require.NoError(t, json.Unmarshal([]byte(`{"name":"mpi","usage":["build"]}`), &plain))
	assert.Nil(t, plain.When)
	assert.True(t, plain.Constraint.IsAny())

	var bad DependencySpec
	assert.Error(t, json.Unmarshal([]byte(`{"name":"x","when":"+"}`), &bad))
}
