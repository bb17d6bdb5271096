package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		in      string
		want    Attribute
		wantErr bool
	}{
		{in: "orders.total", want: Attribute{Table: "orders", Column: "total"}},
		{in: "shop.orders.total", want: Attribute{Schema: "shop", Table: "orders", Column: "total"}},
		{in: " orders.id ", want: Attribute{Table: "orders", Column: "id"}},
		{in: "total", wantErr: true},
		{in: "orders.", wantErr: true},
		{in: "a.b.c.d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAttribute(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttribute_String(t *testing.T) {
	assert.Equal(t, "orders.total", MustParseAttribute("orders.total").String())
	assert.Equal(t, "shop.orders.total", MustParseAttribute("shop.orders.total").String())
}

func TestAliasMap_OriginalOf(t *testing.T) {
	aliases := AliasMap{"o": "orders", "c": "crm.customers"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"alias", "o.total", "orders.total"},
		{"schema qualified original", "c.name", "crm.customers.name"},
		{"not an alias", "orders.id", "orders.id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aliases.OriginalOf(MustParseAttribute(tt.in)).String())
		})
	}

	var identity AliasMap
	assert.Equal(t, "o.total", identity.OriginalOf(MustParseAttribute("o.total")).String())
	assert.True(t, aliases.IsAlias("o"))
	assert.False(t, identity.IsAlias("o"))
}

func TestResource(t *testing.T) {
	a := NewBlankResource()
	b := NewBlankResource()

	assert.True(t, a.IsBlank())
	assert.NotEqual(t, a, b)
	assert.Equal(t, string(a), a.String())

	named := Resource("http://example.org/db")
	assert.False(t, named.IsBlank())
	assert.Equal(t, "<http://example.org/db>", named.String())
}
