package mapping

import (
	"sync/atomic"
	"time"

	"github.com/inovexcorp/d2rq/pkg/core"
	"github.com/inovexcorp/d2rq/pkg/driver"
)

type fakeRule struct {
	db       *Database
	aliases  core.AliasMap
	required []core.Attribute
}

func (r *fakeRule) Database() *Database                  { return r.db }
func (r *fakeRule) Aliases() core.AliasMap               { return r.aliases }
func (r *fakeRule) RequiredAttributes() []core.Attribute { return r.required }

type fakeClassMap struct {
	resource    core.Resource
	rules       []ProjectionRule
	validateErr error
	compileErr  error
	delay       time.Duration
	compiles    atomic.Int32
}

func (c *fakeClassMap) Resource() core.Resource { return c.resource }
func (c *fakeClassMap) Validate() error         { return c.validateErr }

func (c *fakeClassMap) CompiledRules() ([]ProjectionRule, error) {
	c.compiles.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.compileErr != nil {
		return nil, c.compileErr
	}
	return c.rules, nil
}

type fakeTable struct {
	resource    core.Resource
	validateErr error
}

func (t *fakeTable) Resource() core.Resource { return t.resource }
func (t *fakeTable) Validate() error         { return t.validateErr }

// testDrivers returns a registry over a private catalog holding a
// "test.Driver" that claims jdbc:test: URLs and opens the sqlmock
// connection registered under dsn.
func testDrivers(dsn string) *driver.Registry {
	c := driver.NewCatalog()
	c.Add(&driver.Driver{
		Name:        "test",
		Aliases:     []string{"test.Driver"},
		SQLName:     "sqlmock",
		Dialect:     "postgres",
		URLPrefixes: []string{"jdbc:test:"},
		DataSource: func(string, string, string) (string, error) {
			return dsn, nil
		},
	})
	return driver.NewRegistry(c, nil)
}

func attrs(names ...string) []core.Attribute {
	out := make([]core.Attribute, len(names))
	for i, n := range names {
		out[i] = core.MustParseAttribute(n)
	}
	return out
}
