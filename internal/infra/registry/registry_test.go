package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"officegw/internal/domain"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := New(Options{Services: []string{"graph"}})

	err := reg.Register(domain.ModuleDescriptor{
		ID:           "mail",
		DisplayName:  "Mail",
		Capabilities: []string{"listEmails"},
		Requires:     []string{"graph"},
	})
	require.NoError(t, err)

	module, ok := reg.Get("mail")
	require.True(t, ok)
	require.Equal(t, "Mail", module.DisplayName)
}

func TestRegistry_MissingServiceFailsRegistration(t *testing.T) {
	reg := New(Options{Services: []string{"graph"}})

	err := reg.Register(domain.ModuleDescriptor{
		ID:       "billing",
		Requires: []string{"payments"},
	})
	require.Error(t, err)

	var structured *domain.Error
	require.True(t, errors.As(err, &structured))
	require.Equal(t, domain.CategoryModuleInit, structured.Category)
	require.Equal(t, "payments", structured.Context["service"])

	// The failed registration must leave the registry unchanged.
	_, ok := reg.Get("billing")
	require.False(t, ok)
	require.Empty(t, reg.All())
}

func TestRegistry_DuplicateIDRejected(t *testing.T) {
	reg := New(Options{})
	require.NoError(t, reg.Register(domain.ModuleDescriptor{ID: "mail"}))

	err := reg.Register(domain.ModuleDescriptor{ID: "mail"})
	require.Error(t, err)
	require.Equal(t, domain.CategoryModuleInit, domain.CategoryFrom(err))
	require.Len(t, reg.All(), 1)
}

func TestRegistry_EmptyIDRejected(t *testing.T) {
	reg := New(Options{})
	require.Error(t, reg.Register(domain.ModuleDescriptor{}))
}

func TestRegistry_AllPreservesRegistrationOrder(t *testing.T) {
	reg := New(Options{})
	for _, id := range []string{"mail", "calendar", "files"} {
		require.NoError(t, reg.Register(domain.ModuleDescriptor{ID: id}))
	}

	var ids []string
	for _, module := range reg.All() {
		ids = append(ids, module.ID)
	}
	require.Equal(t, []string{"mail", "calendar", "files"}, ids)
}
