package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.users.RegisterProfile(ctx, 100, "Ann")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, p.Role)
	assert.Equal(t, int64(100), p.TelegramID)

	again, err := f.users.RegisterProfile(ctx, 100, "Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "Ann Smith", again.FullName)

	anonymous, err := f.users.RegisterProfile(ctx, 101, " ")
	require.NoError(t, err)
	assert.Equal(t, "Пользователь 101", anonymous.FullName)

	found, err := f.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", found.FullName)
}

func TestBecomeProfessional(t *testing.T) {
	f := newFixture(t)

	p, err := f.users.BecomeProfessional(f.as(f.client))
	require.NoError(t, err)
	assert.Equal(t, model.RoleProfessional, p.Role)

	admin, err := f.users.BecomeProfessional(f.as(f.admin))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, err = f.users.BecomeProfessional(context.Background())
	assert.Error(t, err)
}
