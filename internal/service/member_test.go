package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
)

func newMemberService(e *env) *MemberService {
	return NewMemberService(
		&mockMembers{e.store}, &mockGuilds{e.store}, &mockRoles{e.store},
		e.dispatcher, e.perms,
	)
}

func TestJoinGuild(t *testing.T) {
	e := newEnv()
	e.store.addGuild(1, 10)
	svc := newMemberService(e)

	member, err := svc.JoinGuild(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Empty(t, member.Roles)

	_, err = svc.JoinGuild(context.Background(), 1, 20)
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.JoinGuild(context.Background(), 404, 20)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestKickMemberCascades(t *testing.T) {
	e := newEnv()
	e.store.addGuild(1, 10)
	e.store.addRole(1, 1, 0, 0, 0, true)
	e.store.addRole(2, 1, 1, 0, 0, false)
	e.store.addMember(1, 20)
	e.store.assignRole(1, 20, 2)
	e.store.addChannel(5, 1)
	e.store.addOverwrite(5, 20, models.OverwriteTargetMember, 1, 0)
	svc := newMemberService(e)

	require.NoError(t, svc.KickMember(context.Background(), 1, 10, 20))

	member, err := (&mockMembers{e.store}).GetByGuildAndUser(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Nil(t, member)

	overwrites, err := (&mockOverwrites{e.store}).GetByChannel(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, overwrites)
}

func TestKickMemberRequiresPermission(t *testing.T) {
	e := newEnv()
	e.store.addGuild(1, 10)
	e.store.addRole(1, 1, 0, int64(permissions.PermViewChannel), 0, true)
	e.store.addMember(1, 20)
	e.store.addMember(1, 21)
	svc := newMemberService(e)

	err := svc.KickMember(context.Background(), 1, 20, 21)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestKickOwnerForbidden(t *testing.T) {
	e := newEnv()
	e.store.addGuild(1, 10)
	e.store.addRole(1, 1, 0, 0, 0, true)
	e.store.addMember(1, 20)
	e.store.assignRole(1, 20, 1)
	svc := newMemberService(e)

	err := svc.KickMember(context.Background(), 1, 10, 10)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLeaveGuild(t *testing.T) {
	e := newEnv()
	e.store.addGuild(1, 10)
	e.store.addMember(1, 20)
	svc := newMemberService(e)

	require.NoError(t, svc.LeaveGuild(context.Background(), 1, 20))

	err := svc.LeaveGuild(context.Background(), 1, 10)
	require.ErrorIs(t, err, ErrForbidden)
}
