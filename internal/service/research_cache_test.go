package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/mocks"
)

// newMockedResearchService wires the research service against gomock
// repositories so cache interactions can be asserted call by call.
func newMockedResearchService(t *testing.T) (
	*mocks.MockAnimalRepository,
	*mocks.MockFeedingLogRepository,
	*mocks.MockMedicalLogRepository,
	*mocks.MockCacheRepository,
	*ResearchService,
) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	animals := mocks.NewMockAnimalRepository(ctrl)
	feedings := mocks.NewMockFeedingLogRepository(ctrl)
	medicals := mocks.NewMockMedicalLogRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := NewResearchService(ResearchServiceOptions{
		Animals:  animals,
		Feedings: feedings,
		Medicals: medicals,
		Cache:    cache,
	})
	return animals, feedings, medicals, cache, svc
}

func TestResearchService_SnapshotCacheHitSkipsRepos(t *testing.T) {
	_, _, _, cache, svc := newMockedResearchService(t)

	cached, err := json.Marshal(&ResearchSnapshot{
		GeneratedAt: time.Now().UTC(),
		AnimalCount: 7,
	})
	require.NoError(t, err)

	cache.EXPECT().Get(gomock.Any(), researchSnapshotKey).Return(cached, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, snap.AnimalCount)
}

func TestResearchService_SnapshotCacheMissBuildsAndStores(t *testing.T) {
	animals, feedings, medicals, cache, svc := newMockedResearchService(t)

	cache.EXPECT().Get(gomock.Any(), researchSnapshotKey).Return(nil, nil)
	animals.EXPECT().
		List(gomock.Any(), model.AnimalsListOptions{Limit: snapshotSampleSize}).
		Return([]*model.Animal{{ID: "a-1", Name: "Zuri", Species: "Giraffe"}}, nil)
	feedings.EXPECT().
		List(gomock.Any(), model.FeedingLogsListOptions{Limit: snapshotSampleSize}).
		Return(nil, nil)
	medicals.EXPECT().
		List(gomock.Any(), model.MedicalLogsListOptions{Limit: snapshotSampleSize}).
		Return(nil, nil)
	cache.EXPECT().
		Set(gomock.Any(), researchSnapshotKey, gomock.Any(), defaultSnapshotTTL).
		Return(nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.AnimalCount)
	assert.Equal(t, map[string]int{"Giraffe": 1}, snap.SpeciesCounts)
}

func TestResearchService_SnapshotToleratesCacheSetFailure(t *testing.T) {
	animals, feedings, medicals, cache, svc := newMockedResearchService(t)

	cache.EXPECT().Get(gomock.Any(), researchSnapshotKey).Return(nil, errors.New("redis down"))
	animals.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	feedings.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	medicals.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), researchSnapshotKey, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.AnimalCount)
}

func TestResearchService_SnapshotRepoFailure(t *testing.T) {
	animals, feedings, medicals, cache, svc := newMockedResearchService(t)

	cache.EXPECT().Get(gomock.Any(), researchSnapshotKey).Return(nil, nil)
	animals.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	// The other loads run concurrently; they may or may not be reached
	// before the failure cancels the group.
	feedings.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	medicals.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list animals")
}
