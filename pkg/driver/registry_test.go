package driver

import (
	"sync"
	"testing"

	"github.com/inovexcorp/d2rq/internal/testutil"
	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	c := NewCatalog()
	c.Add(&Driver{
		Name:        "test",
		Aliases:     []string{"test.Driver"},
		SQLName:     "test",
		URLPrefixes: []string{"jdbc:test:"},
	})
	c.Add(&Driver{
		Name:        "other",
		SQLName:     "other",
		URLPrefixes: []string{"jdbc:other:", "jdbc:test:legacy"},
	})
	return c
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(testCatalog(), testutil.NewTestLogger(t))

	require.NoError(t, r.Register("test.Driver"))
	d, ok := r.Get("test.Driver")
	require.True(t, ok)
	assert.Equal(t, "test", d.Name)

	// Registering again, or through another alias, is a no-op.
	require.NoError(t, r.Register("test.Driver"))
	require.NoError(t, r.Register("test"))
	assert.Equal(t, []string{"test"}, r.Registered())
}

func TestRegistry_RegisterNotFound(t *testing.T) {
	r := NewRegistry(testCatalog(), nil)

	err := r.Register("com.example.Missing")
	require.Error(t, err)
	assert.Equal(t, core.KindDriverNotFound, core.KindOf(err))

	var cerr *core.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "com.example.Missing", cerr.Subject)
	assert.Empty(t, r.Registered())
}

func TestRegistry_RegisterIfPresent(t *testing.T) {
	r := NewRegistry(testCatalog(), testutil.NewTestLogger(t))

	r.RegisterIfPresent("com.example.Missing")
	assert.Empty(t, r.Registered())

	r.RegisterIfPresent("other")
	assert.Equal(t, []string{"other"}, r.Registered())
}

func TestRegistry_GuessDriver(t *testing.T) {
	r := NewRegistry(testCatalog(), nil)

	// Nothing registered yet: the guess is empty even though a driver exists.
	_, ok := r.GuessDriver("jdbc:test://host/db")
	assert.False(t, ok)

	require.NoError(t, r.Register("test"))
	name, ok := r.GuessDriver("jdbc:test://host/db")
	require.True(t, ok)
	assert.Equal(t, "test", name)

	_, ok = r.GuessDriver("jdbc:unknown://host/db")
	assert.False(t, ok)
}

func TestRegistry_GuessDriverRegistrationOrder(t *testing.T) {
	r := NewRegistry(testCatalog(), nil)
	require.NoError(t, r.Register("other"))
	require.NoError(t, r.Register("test"))

	// Both claim the URL; the first registered wins.
	name, ok := r.GuessDriver("jdbc:test:legacy//host")
	require.True(t, ok)
	assert.Equal(t, "other", name)
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := NewRegistry(testCatalog(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Register("test.Driver"))
			r.RegisterIfPresent("other")
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"test", "other"}, r.Registered())
}

func TestDriver_DataSourceName(t *testing.T) {
	plain := &Driver{Name: "plain"}
	dsn, err := plain.DataSourceName("file:x.db", "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "file:x.db", dsn)

	custom := &Driver{Name: "custom", DataSource: func(url, user, _ string) (string, error) {
		return user + "@" + url, nil
	}}
	dsn, err = custom.DataSourceName("db", "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@db", dsn)
}

func TestCatalog_Names(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []string{"other", "test"}, c.Names())

	d, ok := c.Lookup("test.Driver")
	require.True(t, ok)
	assert.True(t, d.Claims("JDBC:TEST://host"))
}
