package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.0"

func (f *Fetcher) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (f *Fetcher) fetchZhihuHot(ctx context.Context) []Item {
	var data struct {
		Data []struct {
			Target struct {
				Title   string `json:"title"`
				Excerpt string `json:"excerpt"`
				Link    struct {
					URL string `json:"url"`
				} `json:"link"`
			} `json:"target"`
		} `json:"data"`
	}

	err := f.getJSON(ctx, "https://www.zhihu.com/api/v3/feed/topstory/hot-lists/total", &data)
	if err != nil {
		f.logger.Debugw("zhihu fetch failed", "error", err)
		return nil
	}

	var items []Item
	for i, entry := range data.Data {
		if i >= 15 {
			break
		}
		items = append(items, Item{
			Title:    entry.Target.Title,
			Summary:  truncate(entry.Target.Excerpt, 200),
			Source:   "知乎热榜",
			URL:      entry.Target.Link.URL,
			Category: "hot",
		})
	}
	f.logger.Infow("fetched hot topics", "source", "zhihu", "count", len(items))
	return items
}

func (f *Fetcher) fetchWeiboHot(ctx context.Context) []Item {
	var data struct {
		Data struct {
			Realtime []struct {
				Note string `json:"note"`
				Word string `json:"word"`
			} `json:"realtime"`
		} `json:"data"`
	}

	err := f.getJSON(ctx, "https://weibo.com/ajax/side/hotSearch", &data)
	if err != nil {
		f.logger.Debugw("weibo fetch failed", "error", err)
		return nil
	}

	var items []Item
	for i, entry := range data.Data.Realtime {
		if i >= 15 {
			break
		}
		items = append(items, Item{
			Title:    entry.Note,
			Summary:  entry.Word,
			Source:   "微博热搜",
			URL:      "https://s.weibo.com/weibo?q=" + url.QueryEscape(entry.Word),
			Category: "hot",
		})
	}
	f.logger.Infow("fetched hot topics", "source", "weibo", "count", len(items))
	return items
}

func (f *Fetcher) fetchBaiduHot(ctx context.Context) []Item {
	var data struct {
		Data struct {
			Cards []struct {
				Content []struct {
					Word string `json:"word"`
					Desc string `json:"desc"`
					URL  string `json:"url"`
				} `json:"content"`
			} `json:"cards"`
		} `json:"data"`
	}

	err := f.getJSON(ctx, "https://top.baidu.com/api/board?platform=wise&tab=realtime", &data)
	if err != nil {
		f.logger.Debugw("baidu fetch failed", "error", err)
		return nil
	}

	var items []Item
	if len(data.Data.Cards) > 0 {
		for i, entry := range data.Data.Cards[0].Content {
			if i >= 15 {
				break
			}
			items = append(items, Item{
				Title:    entry.Word,
				Summary:  truncate(entry.Desc, 200),
				Source:   "百度热搜",
				URL:      entry.URL,
				Category: "hot",
			})
		}
	}
	f.logger.Infow("fetched hot topics", "source", "baidu", "count", len(items))
	return items
}

// MockItems is the offline item list, matching the upstream test fixtures.
func MockItems() []Item {
	return []Item{
		{
			Title:    "人工智能技术在医疗领域取得重大突破",
			Summary:  "最新研究表明，AI辅助诊断系统在早期癌症检测方面准确率提升至95%以上，为医疗行业带来革命性变化。",
			Source:   "科技日报",
			URL:      "https://example.com/news/1",
			Category: "tech",
		},
		{
			Title:    "全球气候变化会议达成新共识",
			Summary:  "各国代表在气候峰会上承诺加大减排力度，目标在2030年前将碳排放量减少40%。",
			Source:   "国际新闻",
			URL:      "https://example.com/news/2",
			Category: "environment",
		},
		{
			Title:    "新能源汽车销量创历史新高",
			Summary:  "今年前三季度，新能源汽车销量同比增长超过60%，市场渗透率突破30%大关。",
			Source:   "财经网",
			URL:      "https://example.com/news/3",
			Category: "business",
		},
		{
			Title:    "空间站建设取得重要进展",
			Summary:  "我国空间站完成最新一次对接任务，为后续科学实验奠定坚实基础。",
			Source:   "航天报",
			URL:      "https://example.com/news/4",
			Category: "science",
		},
		{
			Title:    "教育改革新政发布",
			Summary:  "教育部发布最新政策，强调素质教育与创新能力培养，减轻学生课业负担。",
			Source:   "教育周刊",
			URL:      "https://example.com/news/5",
			Category: "education",
		},
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
