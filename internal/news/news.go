package news

import (
	"context"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tingwen/newscast/internal/logging"
)

// Item is one normalized news entry.
type Item struct {
	Title    string
	Summary  string
	Source   string
	URL      string
	Category string
}

// Fetcher pulls candidate items from the hot-list sources. Every source is
// best-effort: a failing endpoint contributes nothing instead of an error.
type Fetcher struct {
	client *http.Client
	logger *logging.Logger
}

func NewFetcher(logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// FetchAll gathers items from every source, deduplicates, and ranks them.
// When nothing usable comes back (or useMock is set) the built-in mock list
// is returned so a run never starts with zero items.
func (f *Fetcher) FetchAll(ctx context.Context, maxItems int, useMock bool) []Item {
	if maxItems <= 0 {
		maxItems = 8
	}

	var all []Item
	if !useMock {
		all = append(all, f.fetchZhihuHot(ctx)...)
		all = append(all, f.fetchWeiboHot(ctx)...)
		all = append(all, f.fetchBaiduHot(ctx)...)
	}

	if len(all) == 0 {
		if !useMock {
			f.logger.Warnw("no news fetched from any source, using mock data")
		}
		all = MockItems()
	}

	selected := FilterAndRank(all, maxItems)
	if len(selected) == 0 {
		f.logger.Warnw("no valid news after filtering, using mock data")
		selected = FilterAndRank(MockItems(), maxItems)
	}
	return selected
}

var titleCleaner = regexp.MustCompile(`[^\w\p{Han}]`)

// source priority for ranking, lower sorts first
var sourcePriority = map[string]int{
	"知乎热榜": 1,
	"微博热搜": 1,
	"百度热搜": 1,
	"科技日报": 2,
	"财经网":  2,
	"国际新闻": 2,
}

// FilterAndRank deduplicates by cleaned title, orders by source priority
// (stable, so within a source the fetch order survives), and caps the list.
func FilterAndRank(items []Item, maxItems int) []Item {
	seen := map[string]bool{}
	var unique []Item
	for _, item := range items {
		clean := titleCleaner.ReplaceAllString(strings.ToLower(item.Title), "")
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true
		unique = append(unique, item)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return priorityOf(unique[i].Source) < priorityOf(unique[j].Source)
	})

	if len(unique) > maxItems {
		unique = unique[:maxItems]
	}
	return unique
}

func priorityOf(source string) int {
	if p, ok := sourcePriority[source]; ok {
		return p
	}
	return 3
}
