package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ozvena/ozvena/app/dto"
	"github.com/ozvena/ozvena/app/services"
	"github.com/ozvena/ozvena/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB returns a gorm handle backed by sqlmock. Flow tests only drive
// Begin/Commit/Rollback through it; row access goes through the fake repos.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock
}

type fakeSimulationRepo struct {
	byUUID      map[string]*models.Simulation
	stale       []*models.Simulation
	claimable   bool
	byUUIDErr   error
	claimErr    error
	completeErr error

	claimedIDs   []uint
	completedIDs []uint
	failedIDs    []uint
	failedMsgs   []string
	deletedIDs   []uint
}

func newFakeSimulationRepo() *fakeSimulationRepo {
	return &fakeSimulationRepo{byUUID: make(map[string]*models.Simulation), claimable: true}
}

func (f *fakeSimulationRepo) ByID(ctx context.Context, id uint) (*models.Simulation, error) {
	for _, s := range f.byUUID {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSimulationRepo) ByFilter(ctx context.Context, filter models.SimulationFilter, orderBy string, limit, offset int) ([]*models.Simulation, error) {
	return nil, nil
}

func (f *fakeSimulationRepo) Save(ctx context.Context, entity *models.Simulation) error {
	if entity.ID == 0 {
		entity.ID = uint(len(f.byUUID) + 1)
	}
	f.byUUID[entity.UUID.String()] = entity
	return nil
}

func (f *fakeSimulationRepo) SaveBatch(ctx context.Context, entities []*models.Simulation) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSimulationRepo) Count(ctx context.Context, filter models.SimulationFilter) (int64, error) {
	return int64(len(f.byUUID)), nil
}

func (f *fakeSimulationRepo) Exists(ctx context.Context, filter models.SimulationFilter) (bool, error) {
	return len(f.byUUID) > 0, nil
}

func (f *fakeSimulationRepo) ByUUID(ctx context.Context, id string) (*models.Simulation, error) {
	if f.byUUIDErr != nil {
		return nil, f.byUUIDErr
	}
	return f.byUUID[id], nil
}

func (f *fakeSimulationRepo) ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Simulation, error) {
	var out []*models.Simulation
	for _, s := range f.byUUID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSimulationRepo) StalePending(ctx context.Context, olderThan time.Time, limit int) ([]*models.Simulation, error) {
	return f.stale, nil
}

func (f *fakeSimulationRepo) ClaimPending(ctx context.Context, id uint) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	if !f.claimable {
		return false, nil
	}
	f.claimedIDs = append(f.claimedIDs, id)
	return true, nil
}

func (f *fakeSimulationRepo) MarkCompleted(ctx context.Context, id uint) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completedIDs = append(f.completedIDs, id)
	return nil
}

func (f *fakeSimulationRepo) MarkFailed(ctx context.Context, id uint, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.failedIDs = append(f.failedIDs, id)
	f.failedMsgs = append(f.failedMsgs, errorMessage)
	return nil
}

func (f *fakeSimulationRepo) Delete(ctx context.Context, id uint) error {
	f.deletedIDs = append(f.deletedIDs, id)
	for k, s := range f.byUUID {
		if s.ID == id {
			delete(f.byUUID, k)
		}
	}
	return nil
}

type fakeResultRepo struct {
	saved        []*models.SimulationResult
	saveBatchErr error
}

func (f *fakeResultRepo) ByID(ctx context.Context, id uint) (*models.SimulationResult, error) {
	return nil, nil
}

func (f *fakeResultRepo) ByFilter(ctx context.Context, filter models.SimulationResultFilter, orderBy string, limit, offset int) ([]*models.SimulationResult, error) {
	return nil, nil
}

func (f *fakeResultRepo) Save(ctx context.Context, entity *models.SimulationResult) error {
	f.saved = append(f.saved, entity)
	return nil
}

func (f *fakeResultRepo) SaveBatch(ctx context.Context, entities []*models.SimulationResult) error {
	if f.saveBatchErr != nil {
		return f.saveBatchErr
	}
	f.saved = append(f.saved, entities...)
	return nil
}

func (f *fakeResultRepo) Count(ctx context.Context, filter models.SimulationResultFilter) (int64, error) {
	return int64(len(f.saved)), nil
}

func (f *fakeResultRepo) Exists(ctx context.Context, filter models.SimulationResultFilter) (bool, error) {
	return len(f.saved) > 0, nil
}

func (f *fakeResultRepo) BySimulationID(ctx context.Context, simulationID uint) ([]*models.SimulationResult, error) {
	var out []*models.SimulationResult
	for _, r := range f.saved {
		if r.SimulationID == simulationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) CountBySimulationID(ctx context.Context, simulationID uint) (int64, error) {
	rows, err := f.BySimulationID(ctx, simulationID)
	return int64(len(rows)), err
}

type fakeLLMService struct {
	response   *services.LLMResponse
	err        error
	onGenerate func()

	gotModelID      string
	gotSystemPrompt string
	gotUserPrompt   string
	calls           int
}

func (f *fakeLLMService) Generate(ctx context.Context, modelID, systemPrompt, userPrompt string) (*services.LLMResponse, error) {
	f.calls++
	f.gotModelID = modelID
	f.gotSystemPrompt = systemPrompt
	f.gotUserPrompt = userPrompt
	if f.onGenerate != nil {
		f.onGenerate()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeCampaignRepo struct {
	byUUID map[string]*models.Campaign
}

func newFakeCampaignRepo(campaigns ...*models.Campaign) *fakeCampaignRepo {
	f := &fakeCampaignRepo{byUUID: make(map[string]*models.Campaign)}
	for _, c := range campaigns {
		f.byUUID[c.UUID.String()] = c
	}
	return f
}

func (f *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignRepo) Save(ctx context.Context, entity *models.Campaign) error {
	f.byUUID[entity.UUID.String()] = entity
	return nil
}

func (f *fakeCampaignRepo) SaveBatch(ctx context.Context, entities []*models.Campaign) error {
	for _, e := range entities {
		f.byUUID[e.UUID.String()] = e
	}
	return nil
}

func (f *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	return int64(len(f.byUUID)), nil
}

func (f *fakeCampaignRepo) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	return len(f.byUUID) > 0, nil
}

func (f *fakeCampaignRepo) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	return f.byUUID[id], nil
}

func (f *fakeCampaignRepo) ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range f.byUUID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) Delete(ctx context.Context, id uint) error {
	for k, c := range f.byUUID {
		if c.ID == id {
			delete(f.byUUID, k)
		}
	}
	return nil
}

type fakeTargetGroupRepo struct {
	byUUID map[string]*models.TargetGroup
}

func newFakeTargetGroupRepo(groups ...*models.TargetGroup) *fakeTargetGroupRepo {
	f := &fakeTargetGroupRepo{byUUID: make(map[string]*models.TargetGroup)}
	for _, g := range groups {
		f.byUUID[g.UUID.String()] = g
	}
	return f
}

func (f *fakeTargetGroupRepo) ByID(ctx context.Context, id uint) (*models.TargetGroup, error) {
	return nil, nil
}

func (f *fakeTargetGroupRepo) ByFilter(ctx context.Context, filter models.TargetGroupFilter, orderBy string, limit, offset int) ([]*models.TargetGroup, error) {
	return nil, nil
}

func (f *fakeTargetGroupRepo) Save(ctx context.Context, entity *models.TargetGroup) error {
	f.byUUID[entity.UUID.String()] = entity
	return nil
}

func (f *fakeTargetGroupRepo) SaveBatch(ctx context.Context, entities []*models.TargetGroup) error {
	for _, e := range entities {
		f.byUUID[e.UUID.String()] = e
	}
	return nil
}

func (f *fakeTargetGroupRepo) Count(ctx context.Context, filter models.TargetGroupFilter) (int64, error) {
	return int64(len(f.byUUID)), nil
}

func (f *fakeTargetGroupRepo) Exists(ctx context.Context, filter models.TargetGroupFilter) (bool, error) {
	return len(f.byUUID) > 0, nil
}

func (f *fakeTargetGroupRepo) ByUUID(ctx context.Context, id string) (*models.TargetGroup, error) {
	return f.byUUID[id], nil
}

func (f *fakeTargetGroupRepo) ByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TargetGroup, error) {
	var out []*models.TargetGroup
	for _, g := range f.byUUID {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeTargetGroupRepo) Delete(ctx context.Context, id uint) error {
	for k, g := range f.byUUID {
		if g.ID == id {
			delete(f.byUUID, k)
		}
	}
	return nil
}

// fakeRunFlow records Run invocations and signals them on a channel so tests
// can wait for background dispatch without sleeping.
type fakeRunFlow struct {
	err  error
	runs chan string
}

func newFakeRunFlow() *fakeRunFlow {
	return &fakeRunFlow{runs: make(chan string, 8)}
}

func (f *fakeRunFlow) Run(ctx context.Context, simulationUUID string) (*dto.RunSimulationResponse, error) {
	f.runs <- simulationUUID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RunSimulationResponse{
		Message:       "Simulation completed successfully",
		SimulationID:  simulationUUID,
		ReactionCount: 3,
	}, nil
}

func pendingSimulation(id uint, userID uuid.UUID) *models.Simulation {
	return &models.Simulation{
		ID:     id,
		UUID:   uuid.New(),
		UserID: userID,
		Status: models.SimulationStatusPending,
		CampaignSnapshot: models.CampaignSnapshot{
			Name:           "Spring Launch",
			Content:        "Try our new sparkling tea, now in stores.",
			SocialPlatform: models.PlatformTwitter,
		},
		TargetGroupSnapshot: models.TargetGroupSnapshot{
			Name:         "Urban commuters",
			Description:  "25-40, health conscious, short attention span",
			PersonaCount: 3,
		},
	}
}
