package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModule struct {
	name     string
	priority int
	order    *[]string
	err      error
}

func (m *stubModule) Name() string  { return m.name }
func (m *stubModule) Priority() int { return m.priority }

func (m *stubModule) Init(ctx *ModuleContext) error {
	*m.order = append(*m.order, m.name)
	ctx.Provide(m.name+".service", m.name)
	return m.err
}

func withRegistry(t *testing.T) {
	saved := moduleRegistry
	moduleRegistry = make(map[string]Module)
	t.Cleanup(func() { moduleRegistry = saved })
}

func TestInitModulesOrder(t *testing.T) {
	withRegistry(t)
	var order []string
	Register(&stubModule{name: "order", priority: 30, order: &order})
	Register(&stubModule{name: "offer", priority: 10, order: &order})
	Register(&stubModule{name: "inventory", priority: 10, order: &order})
	Register(&stubModule{name: "payment", priority: 20, order: &order})

	ctx := &ModuleContext{}
	require.NoError(t, InitModules(ctx))

	assert.Equal(t, []string{"inventory", "offer", "payment", "order"}, order)
	svc, ok := ctx.Lookup("payment.service")
	assert.True(t, ok)
	assert.Equal(t, "payment", svc)
}

func TestInitModulesStopsOnError(t *testing.T) {
	withRegistry(t)
	var order []string
	boom := errors.New("boom")
	Register(&stubModule{name: "a", priority: 1, order: &order, err: boom})
	Register(&stubModule{name: "b", priority: 2, order: &order})

	err := InitModules(&ModuleContext{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, order)
}

func TestLookupMissing(t *testing.T) {
	_, ok := (&ModuleContext{}).Lookup("nothing")
	assert.False(t, ok)
}
