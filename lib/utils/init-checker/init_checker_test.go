package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Do()
}

type impl struct{}

func (i *impl) Do() {}

func TestCheck(t *testing.T) {
	var empty provider
	var nilImpl *impl
	var typedNil provider = nilImpl

	require.NoError(t, Check(Dependency{"ok", &impl{}}, Dependency{"value", 1}))
	require.EqualError(t, Check(Dependency{"ok", &impl{}}, Dependency{"jobs", empty}), "зависимость jobs не инициализирована")
	require.Error(t, Check(Dependency{"typed", typedNil}))
	require.Panics(t, func() { MustCheck(Dependency{"jobs", nil}) })
}
