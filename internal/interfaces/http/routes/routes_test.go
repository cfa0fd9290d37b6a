package routes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rmgweb/internal/application/structure"
	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/pkg/errors"
)

func TestEscapePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "abc/DEF-1.2_~", "abc/DEF-1.2_~"},
		{"space and newline", "1 C\n", "1%20C%0A"},
		{"braces", "{1,S}", "%7B1,S%7D"},
		{"existing escapes kept", "1%20C%0A", "1%20C%0A"},
		{"query and fragment", "a?b#c", "a%3Fb%23c"},
		{"sub-delims kept", "[O,S]*1=+", "[O,S]*1=+"},
		{"non-ascii", "é", "%C3%A9"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EscapePath(tt.in))
		})
	}
}

func TestRoute_Patterns(t *testing.T) {
	t.Parallel()
	r := Route{Name: MoleculeEntry, Pattern: "/database/molecule/{adjlist}"}
	assert.Equal(t, "/database/molecule/", r.Prefix())
	assert.Equal(t, []string{"adjlist"}, r.Params())
	assert.Equal(t, "/database/molecule/*", r.MountPattern())

	home := Route{Name: Home, Pattern: "/"}
	assert.Equal(t, "/", home.Prefix())
	assert.Empty(t, home.Params())
	assert.Equal(t, "/", home.MountPattern())

	mid := Route{Name: "x", Pattern: "/a/{id}/b"}
	assert.Equal(t, "/a/{id}/b", mid.MountPattern())
}

func TestTable_Reverse(t *testing.T) {
	t.Parallel()
	table := NewDefaultTable()
	adj := map[string]string{ParamAdjlist: "1 C u0 {2,S}\n"}

	tests := []struct {
		name   string
		route  string
		params map[string]string
		want   string
	}{
		{"home", Home, nil, "/"},
		{"database index", DatabaseIndex, nil, "/database/"},
		{"molecule entry", MoleculeEntry, adj, "/database/molecule/1%20C%20u0%20%7B2,S%7D%0A"},
		{"group entry", GroupEntry, adj, "/database/group/1%20C%20u0%20%7B2,S%7D%0A"},
		{"draw molecule", DrawMolecule, map[string]string{ParamAdjlist: "1%20C%0A"}, "/molecule/1%20C%0A"},
		{"draw group", DrawGroup, adj, "/group/1%20C%20u0%20%7B2,S%7D%0A"},
		{"extra params ignored", Home, adj, "/"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := table.Reverse(tt.route, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_ReverseErrors(t *testing.T) {
	t.Parallel()
	table := NewDefaultTable()

	_, err := table.Reverse("nope", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRouteNotFound))

	_, err = table.Reverse(MoleculeEntry, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRouteParamMissing))

	_, err = table.Reverse(MoleculeEntry, map[string]string{ParamAdjlist: ""})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRouteParamMissing))
}

func TestTable_RegisterAndRoutes(t *testing.T) {
	t.Parallel()
	table := NewTable()
	table.Register(Route{Name: "b", Pattern: "/b"})
	table.Register(Route{Name: "a", Pattern: "/a"})
	table.Register(Route{Name: "a", Pattern: "/a2"})

	routes := table.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "a", routes[0].Name)
	assert.Equal(t, "/a2", routes[0].Pattern)

	_, ok := table.Lookup("c")
	assert.False(t, ok)
}

func TestTable_DrivesMarkup(t *testing.T) {
	t.Parallel()
	m, err := domain.ParseMolecule("1 O u2 p2 c0\n")
	require.NoError(t, err)

	b := structure.NewMarkupBuilder(NewDefaultTable())
	html, err := b.StructureMarkup(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, html, `src="/molecule/1%20O%20u2%20p2%20c0%0A"`)

	info, err := b.StructureInfo(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, info, `<a href="/database/molecule/1%20O%20u2%20p2%20c0%0A">`)
}

//Personal.AI order the ending
