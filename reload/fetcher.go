package reload

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/HavvokLab/solix-setup/api/solix"
	"github.com/HavvokLab/solix-setup/model"
)

// Fetcher returns the current site and device data of an entry.
type Fetcher interface {
	Fetch(ctx context.Context, entry model.ConfigEntry) (model.ApiData, error)
}

type clientFetcher struct {
	opts    []solix.Option
	mu      sync.Mutex
	clients map[int64]*solix.Client
}

// NewClientFetcher keeps one cloud client per entry so that sessions are
// reused between reloads. The request delay follows the entry options.
func NewClientFetcher(opts ...solix.Option) Fetcher {
	return &clientFetcher{
		opts:    opts,
		clients: make(map[int64]*solix.Client),
	}
}

func (f *clientFetcher) client(entry model.ConfigEntry) *solix.Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	delay := time.Duration(entry.Options.RequestDelay * float64(time.Second))
	if c, ok := f.clients[entry.ID]; ok {
		if c.RequestDelay() != delay {
			c.SetRequestDelay(delay)
		}
		return c
	}

	opts := append([]solix.Option{}, f.opts...)
	opts = append(opts, solix.WithRequestDelay(delay))
	c := solix.NewClient(entry.Data.Credentials(), opts...)
	f.clients[entry.ID] = c
	return c
}

func (f *clientFetcher) Fetch(ctx context.Context, entry model.ConfigEntry) (model.ApiData, error) {
	c := f.client(entry)

	if entry.Options.TestMode {
		dir := filepath.Join(entry.Data.ExamplesFolder, entry.Options.TestFolder)
		if err := c.LoadSitesFromFolder(dir); err != nil {
			return nil, err
		}
		return c.Data(), nil
	}

	if err := c.UpdateSites(ctx); err != nil {
		return nil, err
	}
	return c.Data(), nil
}
