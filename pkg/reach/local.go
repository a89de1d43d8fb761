package reach

import (
	"log"
	"sync"
	"time"

	"github.com/ekitools/reach-go/internal/dataset"
	"github.com/ekitools/reach-go/internal/graph"
	"github.com/ekitools/reach-go/internal/models"
	"github.com/ekitools/reach-go/internal/search"
)

// snapshot is one dataset version: the index and the graph built from
// it, swapped atomically on reload so in-flight queries keep the
// version they started with
type snapshot struct {
	index    *dataset.Index
	graph    *graph.Graph
	loadedAt time.Time
}

// LocalClient implements Client over record files on disk
type LocalClient struct {
	cfg Config

	mu   sync.RWMutex
	snap *snapshot

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewLocal loads the dataset, builds the graph, and optionally starts
// the background reload loop
func NewLocal(cfg Config) (*LocalClient, error) {
	c := &LocalClient{
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}

	if err := c.reload(); err != nil {
		return nil, err
	}

	if cfg.ReloadInterval > 0 {
		c.wg.Add(1)
		go c.reloadLoop()
	}

	return c, nil
}

// Close stops the background reload loop, if running
// Must be called to prevent goroutine leaks
func (c *LocalClient) Close() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *LocalClient) reloadLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.reload(); err != nil {
				log.Printf("Dataset reload failed: %v", err)
			}
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalClient) reload() error {
	data, err := dataset.Load(c.cfg.StationsFile, c.cfg.ConnectionsFile)
	if err != nil {
		return err
	}

	g := graph.Build(data.Stations, data.Connections, c.estimator())

	c.mu.Lock()
	c.snap = &snapshot{
		index:    dataset.NewIndex(data.Stations),
		graph:    g,
		loadedAt: time.Now(),
	}
	c.mu.Unlock()

	return nil
}

func (c *LocalClient) estimator() graph.TravelTimeEstimator {
	if c.cfg.SpeedProfile == "linetype" {
		return graph.LineTypeEstimator{}
	}
	return graph.FlatSpeedEstimator{}
}

func (c *LocalClient) snapshot() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *LocalClient) Stations() ([]models.Station, error) {
	return c.snapshot().index.Stations(), nil
}

func (c *LocalClient) Lines() ([]models.Line, error) {
	return c.snapshot().index.Lines(), nil
}

func (c *LocalClient) NearbyStations(lat, lon float64, limit int) ([]models.Station, error) {
	return c.snapshot().index.Nearest(lat, lon, limit), nil
}

func (c *LocalClient) HasStation(code string) bool {
	return c.snapshot().index.Has(code)
}

func (c *LocalClient) Reachable(origin string, maxMinutes int) ([]models.SearchResult, error) {
	snap := c.snapshot()
	return search.Search(snap.graph, snap.index.ByCode(), origin, maxMinutes), nil
}

func (c *LocalClient) ReachableMulti(q models.MultiQuery) ([]models.SearchResult, error) {
	snap := c.snapshot()
	return search.MultiOrigin(snap.graph, snap.index.ByCode(), q), nil
}

func (c *LocalClient) ReachableGroups(groups []models.OriginGroup) ([]models.SearchResult, error) {
	snap := c.snapshot()
	return search.Groups(snap.graph, snap.index.ByCode(), groups), nil
}

func (c *LocalClient) LastLoaded() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.loadedAt
}
