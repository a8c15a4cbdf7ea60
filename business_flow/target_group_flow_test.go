package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetGroupFlow_CreateTargetGroup(t *testing.T) {
	t.Run("DefaultPersonaCount", func(t *testing.T) {
		repo := newFakeTargetGroupRepo()
		flow := NewTargetGroupFlow(repo)

		resp, err := flow.CreateTargetGroup(context.Background(), &dto.CreateTargetGroupRequest{
			UserID:      uuid.New(),
			Name:        "Urban commuters",
			Description: "25-40, health conscious, short attention span",
		}, testClientMetadata())
		require.NoError(t, err)
		assert.Equal(t, utils.DefaultPersonaCount, resp.TargetGroup.PersonaCount)
	})

	t.Run("ExplicitPersonaCount", func(t *testing.T) {
		flow := NewTargetGroupFlow(newFakeTargetGroupRepo())

		count := 25
		resp, err := flow.CreateTargetGroup(context.Background(), &dto.CreateTargetGroupRequest{
			UserID:       uuid.New(),
			Name:         "Urban commuters",
			Description:  "25-40, health conscious, short attention span",
			PersonaCount: &count,
		}, testClientMetadata())
		require.NoError(t, err)
		assert.Equal(t, 25, resp.TargetGroup.PersonaCount)
	})

	t.Run("PersonaCountOutOfRange", func(t *testing.T) {
		flow := NewTargetGroupFlow(newFakeTargetGroupRepo())

		count := utils.MaxPersonaCount + 1
		_, err := flow.CreateTargetGroup(context.Background(), &dto.CreateTargetGroupRequest{
			UserID:       uuid.New(),
			Name:         "Urban commuters",
			Description:  "25-40, health conscious, short attention span",
			PersonaCount: &count,
		}, testClientMetadata())
		assert.True(t, IsInvalidPersonaCount(err))
	})
}

func TestTargetGroupFlow_DeleteTargetGroup(t *testing.T) {
	userID := uuid.New()
	group := sampleTargetGroup(userID)
	repo := newFakeTargetGroupRepo(group)
	flow := NewTargetGroupFlow(repo)

	t.Run("OtherUsersGroup", func(t *testing.T) {
		_, err := flow.DeleteTargetGroup(context.Background(), &dto.DeleteTargetGroupRequest{
			UUID: group.UUID.String(), UserID: uuid.New(),
		}, testClientMetadata())
		assert.True(t, IsTargetGroupAccessDenied(err))
	})

	t.Run("Owner", func(t *testing.T) {
		_, err := flow.DeleteTargetGroup(context.Background(), &dto.DeleteTargetGroupRequest{
			UUID: group.UUID.String(), UserID: userID,
		}, testClientMetadata())
		require.NoError(t, err)
		assert.Empty(t, repo.byUUID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := flow.DeleteTargetGroup(context.Background(), &dto.DeleteTargetGroupRequest{
			UUID: uuid.New().String(), UserID: userID,
		}, testClientMetadata())
		assert.True(t, IsTargetGroupNotFound(err))
	})
}
