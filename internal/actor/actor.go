// Package actor передаёт текущего пользователя через контекст запроса.
package actor

import (
	"context"
	"errors"
	"slices"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("no authenticated actor")
	ErrForbidden       = errors.New("actor role not permitted")
)

type Actor struct {
	ProfileID uuid.UUID
	Role      model.Role
}

func (a Actor) Is(role model.Role) bool {
	return a.Role == role
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	if !ok || a.ProfileID == uuid.Nil {
		return Actor{}, false
	}
	return a, true
}

// Require возвращает пользователя, если его роль входит в roles. Пустой roles
// пропускает любого авторизованного.
func Require(ctx context.Context, roles ...model.Role) (Actor, error) {
	a, ok := FromContext(ctx)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	if len(roles) > 0 && !slices.Contains(roles, a.Role) {
		return a, ErrForbidden
	}
	return a, nil
}

// FromProfile строит actor по профилю.
func FromProfile(p *model.Profile) Actor {
	return Actor{ProfileID: p.ID, Role: p.Role}
}
