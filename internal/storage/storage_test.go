package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/urlaubsplaner/internal/planner"
	"go.uber.org/zap"
)

func testPlan() planner.PlanData {
	return planner.PlanData{
		VacationDays:     []string{"2025-03-10", "2025-03-11"},
		BlockedDays:      []string{"2025-06-02"},
		VacationNotes:    map[string]string{"2025-03-10": "Skiurlaub"},
		TotalEntitlement: 30,
		FederalState:     "HE",
		Year:             2025,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	store := NewStore(path, zap.NewNop())

	require.NoError(t, store.Save(testPlan()))

	loaded, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, loaded.VacationDays)
	assert.Equal(t, "Skiurlaub", loaded.VacationNotes["2025-03-10"])
	assert.Equal(t, "HE", loaded.FederalState)
	assert.NotEmpty(t, loaded.LastUpdated)

	_, err = time.Parse(time.RFC3339, loaded.LastUpdated)
	assert.NoError(t, err)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())

	data, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, data.Year)
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte("{nicht json"), 0644))

	store := NewStore(path, zap.NewNop())
	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestImportExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urlaubsplanung_2025.json")
	require.NoError(t, Export(path, testPlan()))

	data, err := Import(path)
	require.NoError(t, err)
	assert.Equal(t, 2025, data.Year)
	assert.Equal(t, []string{"2025-06-02"}, data.BlockedDays)
}

func TestImportMissingFileIsError(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestDebouncedSaverCoalesces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	store := NewStore(path, zap.NewNop())

	var mu sync.Mutex
	snapshots := 0
	saver := NewDebouncedSaver(store, 20*time.Millisecond, func() planner.PlanData {
		mu.Lock()
		snapshots++
		mu.Unlock()
		return testPlan()
	}, zap.NewNop())
	defer saver.Close()

	for i := 0; i < 5; i++ {
		saver.Notify()
	}

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	// One burst of notifies produced one snapshot
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, snapshots)
}

func TestDebouncedSaverFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	store := NewStore(path, zap.NewNop())

	saver := NewDebouncedSaver(store, time.Hour, func() planner.PlanData {
		return testPlan()
	}, zap.NewNop())
	defer saver.Close()

	saver.Notify()
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	saver.Flush()
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDebouncedSaverFlushWithoutPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	store := NewStore(path, zap.NewNop())

	saver := NewDebouncedSaver(store, time.Hour, func() planner.PlanData {
		return testPlan()
	}, zap.NewNop())
	saver.Flush()
	saver.Close()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDebouncedSaverCloseIgnoresLaterNotify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	store := NewStore(path, zap.NewNop())

	saver := NewDebouncedSaver(store, 10*time.Millisecond, func() planner.PlanData {
		return testPlan()
	}, zap.NewNop())
	saver.Close()
	saver.Notify()

	time.Sleep(30 * time.Millisecond)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
