package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientMetadata() *ClientMetadata {
	return &ClientMetadata{IPAddress: "203.0.113.10", UserAgent: "test-agent"}
}

func sampleCampaign(userID uuid.UUID) *models.Campaign {
	return &models.Campaign{
		ID:             1,
		UUID:           uuid.New(),
		UserID:         userID,
		Name:           "Spring Launch",
		Content:        "Try our new sparkling tea, now in stores.",
		SocialPlatform: models.PlatformInstagram,
	}
}

func sampleTargetGroup(userID uuid.UUID) *models.TargetGroup {
	return &models.TargetGroup{
		ID:           1,
		UUID:         uuid.New(),
		UserID:       userID,
		Name:         "Urban commuters",
		Description:  "25-40, health conscious",
		PersonaCount: 5,
	}
}

func waitForRun(t *testing.T, runFlow *fakeRunFlow) string {
	t.Helper()
	select {
	case id := <-runFlow.runs:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("background run was not dispatched")
		return ""
	}
}

func TestSimulationFlow_CreateSimulation(t *testing.T) {
	t.Run("SnapshotsAndDispatches", func(t *testing.T) {
		userID := uuid.New()
		campaign := sampleCampaign(userID)
		targetGroup := sampleTargetGroup(userID)
		simRepo := newFakeSimulationRepo()
		runFlow := newFakeRunFlow()

		flow := NewSimulationFlow(simRepo, &fakeResultRepo{},
			newFakeCampaignRepo(campaign), newFakeTargetGroupRepo(targetGroup),
			runFlow, nil, nil)

		resp, err := flow.CreateSimulation(context.Background(), &dto.CreateSimulationRequest{
			UserID:          userID,
			CampaignUUID:    campaign.UUID.String(),
			TargetGroupUUID: targetGroup.UUID.String(),
		}, testClientMetadata())
		require.NoError(t, err)

		assert.Equal(t, string(models.SimulationStatusPending), resp.Simulation.Status)
		assert.Equal(t, "Spring Launch", resp.Simulation.CampaignSnapshot.Name)
		assert.Equal(t, 5, resp.Simulation.TargetGroupSnapshot.PersonaCount)

		saved, err := simRepo.ByUUID(context.Background(), resp.Simulation.UUID)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, models.PlatformInstagram, saved.CampaignSnapshot.SocialPlatform)

		dispatched := waitForRun(t, runFlow)
		assert.Equal(t, resp.Simulation.UUID, dispatched)
	})

	t.Run("CampaignNotFound", func(t *testing.T) {
		userID := uuid.New()
		flow := NewSimulationFlow(newFakeSimulationRepo(), &fakeResultRepo{},
			newFakeCampaignRepo(), newFakeTargetGroupRepo(sampleTargetGroup(userID)),
			newFakeRunFlow(), nil, nil)

		_, err := flow.CreateSimulation(context.Background(), &dto.CreateSimulationRequest{
			UserID:          userID,
			CampaignUUID:    uuid.New().String(),
			TargetGroupUUID: uuid.New().String(),
		}, testClientMetadata())
		assert.True(t, IsCampaignNotFound(err))
	})

	t.Run("CampaignOwnedByAnotherUser", func(t *testing.T) {
		userID := uuid.New()
		campaign := sampleCampaign(uuid.New())
		flow := NewSimulationFlow(newFakeSimulationRepo(), &fakeResultRepo{},
			newFakeCampaignRepo(campaign), newFakeTargetGroupRepo(sampleTargetGroup(userID)),
			newFakeRunFlow(), nil, nil)

		_, err := flow.CreateSimulation(context.Background(), &dto.CreateSimulationRequest{
			UserID:          userID,
			CampaignUUID:    campaign.UUID.String(),
			TargetGroupUUID: uuid.New().String(),
		}, testClientMetadata())
		assert.True(t, IsCampaignAccessDenied(err))
	})

	t.Run("TargetGroupOwnedByAnotherUser", func(t *testing.T) {
		userID := uuid.New()
		campaign := sampleCampaign(userID)
		targetGroup := sampleTargetGroup(uuid.New())
		flow := NewSimulationFlow(newFakeSimulationRepo(), &fakeResultRepo{},
			newFakeCampaignRepo(campaign), newFakeTargetGroupRepo(targetGroup),
			newFakeRunFlow(), nil, nil)

		_, err := flow.CreateSimulation(context.Background(), &dto.CreateSimulationRequest{
			UserID:          userID,
			CampaignUUID:    campaign.UUID.String(),
			TargetGroupUUID: targetGroup.UUID.String(),
		}, testClientMetadata())
		assert.True(t, IsTargetGroupAccessDenied(err))
	})
}

func TestSimulationFlow_ListSimulations(t *testing.T) {
	t.Run("InvalidPagination", func(t *testing.T) {
		flow := NewSimulationFlow(newFakeSimulationRepo(), &fakeResultRepo{},
			newFakeCampaignRepo(), newFakeTargetGroupRepo(), newFakeRunFlow(), nil, nil)

		_, err := flow.ListSimulations(context.Background(), &dto.ListSimulationsRequest{
			UserID: uuid.New(), Page: -1,
		}, testClientMetadata())
		assert.True(t, IsInvalidPagination(err))
	})

	t.Run("ReturnsOwnSimulationsOnly", func(t *testing.T) {
		userID := uuid.New()
		simRepo := newFakeSimulationRepo()
		require.NoError(t, simRepo.Save(context.Background(), pendingSimulation(1, userID)))
		require.NoError(t, simRepo.Save(context.Background(), pendingSimulation(2, uuid.New())))

		flow := NewSimulationFlow(simRepo, &fakeResultRepo{},
			newFakeCampaignRepo(), newFakeTargetGroupRepo(), newFakeRunFlow(), nil, nil)

		resp, err := flow.ListSimulations(context.Background(), &dto.ListSimulationsRequest{
			UserID: userID,
		}, testClientMetadata())
		require.NoError(t, err)
		assert.Len(t, resp.Simulations, 1)
		assert.Equal(t, 1, resp.Page)
	})
}

func TestSimulationFlow_GetSimulation(t *testing.T) {
	userID := uuid.New()
	simRepo := newFakeSimulationRepo()
	sim := pendingSimulation(9, userID)
	require.NoError(t, simRepo.Save(context.Background(), sim))

	resultRepo := &fakeResultRepo{saved: []*models.SimulationResult{
		{SimulationID: 9, PersonaName: "Maya", Content: "love it", Sentiment: models.SentimentPositive},
	}}

	flow := NewSimulationFlow(simRepo, resultRepo,
		newFakeCampaignRepo(), newFakeTargetGroupRepo(), newFakeRunFlow(), nil, nil)

	t.Run("WithResults", func(t *testing.T) {
		resp, err := flow.GetSimulation(context.Background(), &dto.GetSimulationRequest{
			UUID: sim.UUID.String(), UserID: userID,
		}, testClientMetadata())
		require.NoError(t, err)
		assert.Equal(t, sim.UUID.String(), resp.Simulation.UUID)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Maya", resp.Results[0].PersonaName)
	})

	t.Run("AccessDenied", func(t *testing.T) {
		_, err := flow.GetSimulation(context.Background(), &dto.GetSimulationRequest{
			UUID: sim.UUID.String(), UserID: uuid.New(),
		}, testClientMetadata())
		assert.True(t, IsSimulationAccessDenied(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := flow.GetSimulation(context.Background(), &dto.GetSimulationRequest{
			UUID: uuid.New().String(), UserID: userID,
		}, testClientMetadata())
		assert.True(t, IsSimulationNotFound(err))
	})
}

func TestSimulationFlow_DeleteSimulation(t *testing.T) {
	userID := uuid.New()
	simRepo := newFakeSimulationRepo()
	sim := pendingSimulation(4, userID)
	require.NoError(t, simRepo.Save(context.Background(), sim))

	flow := NewSimulationFlow(simRepo, &fakeResultRepo{},
		newFakeCampaignRepo(), newFakeTargetGroupRepo(), newFakeRunFlow(), nil, nil)

	resp, err := flow.DeleteSimulation(context.Background(), &dto.DeleteSimulationRequest{
		UUID: sim.UUID.String(), UserID: userID,
	}, testClientMetadata())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, []uint{4}, simRepo.deletedIDs)

	// A second delete finds nothing
	_, err = flow.DeleteSimulation(context.Background(), &dto.DeleteSimulationRequest{
		UUID: sim.UUID.String(), UserID: userID,
	}, testClientMetadata())
	assert.True(t, IsSimulationNotFound(err))
}

func TestSimulationFlow_RunSimulation(t *testing.T) {
	userID := uuid.New()
	simRepo := newFakeSimulationRepo()
	sim := pendingSimulation(6, userID)
	require.NoError(t, simRepo.Save(context.Background(), sim))

	runFlow := newFakeRunFlow()
	flow := NewSimulationFlow(simRepo, &fakeResultRepo{},
		newFakeCampaignRepo(), newFakeTargetGroupRepo(), runFlow, nil, nil)

	resp, err := flow.RunSimulation(context.Background(), &dto.RunSimulationRequest{
		UUID: sim.UUID.String(), UserID: userID,
	}, testClientMetadata())
	require.NoError(t, err)
	assert.Equal(t, sim.UUID.String(), resp.SimulationID)
	assert.Equal(t, sim.UUID.String(), <-runFlow.runs)
}

func TestSimulationFlow_ExportResults(t *testing.T) {
	userID := uuid.New()
	simRepo := newFakeSimulationRepo()
	sim := pendingSimulation(11, userID)
	sim.Status = models.SimulationStatusCompleted
	require.NoError(t, simRepo.Save(context.Background(), sim))

	resultRepo := &fakeResultRepo{saved: []*models.SimulationResult{
		{SimulationID: 11, PersonaName: "Maya", Content: "love it", Sentiment: models.SentimentPositive, RelevanceScore: 0.91, ToxicityScore: 0.02},
		{SimulationID: 11, PersonaName: "Tom", Content: "meh", Sentiment: models.SentimentNeutral, RelevanceScore: 0.4, ToxicityScore: 0.1},
	}}

	flow := NewSimulationFlow(simRepo, resultRepo,
		newFakeCampaignRepo(), newFakeTargetGroupRepo(), newFakeRunFlow(), nil, nil)

	filename, content, err := flow.ExportResults(context.Background(), &dto.ExportSimulationRequest{
		UUID: sim.UUID.String(), UserID: userID,
	}, testClientMetadata())
	require.NoError(t, err)

	assert.Equal(t, "simulation_"+sim.UUID.String()+"_results.xlsx", filename)
	assert.NotEmpty(t, content)
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, content[:2])
}
