package script

import (
	"fmt"
	"strings"
)

// CompilerItem is one topic entry in the script-compiler's output.
type CompilerItem struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Subtitle string `json:"subtitle,omitempty"`
	Section  string `json:"section,omitempty"`
}

// CompilerOutput is what the upstream script compiler hands us. It comes in
// two shapes: grouped domestic/international lists, or a legacy flat news
// list tagged per item with a section name.
type CompilerOutput struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Opening string `json:"opening"`
	Closing string `json:"closing"`

	DomesticNews      []CompilerItem `json:"domestic_news,omitempty"`
	InternationalNews []CompilerItem `json:"international_news,omitempty"`

	// legacy flat shape
	News []CompilerItem `json:"news,omitempty"`
}

func (c *CompilerOutput) usable() bool {
	if strings.TrimSpace(c.Opening) == "" || strings.TrimSpace(c.Closing) == "" {
		return false
	}
	return len(c.DomesticNews) > 0 || len(c.InternationalNews) > 0 || len(c.News) > 0
}

type compilerProducer struct {
	script *CompilerOutput
}

// section display names for the grouped shape
const (
	sectionDomestic      = "国内新闻"
	sectionInternational = "国际新闻"
)

func (p *compilerProducer) Blocks() ([]*Block, error) {
	s := p.script

	var sections []struct {
		name  string
		items []CompilerItem
	}

	if len(s.DomesticNews) > 0 || len(s.InternationalNews) > 0 {
		if len(s.DomesticNews) > 0 {
			sections = append(sections, struct {
				name  string
				items []CompilerItem
			}{sectionDomestic, s.DomesticNews})
		}
		if len(s.InternationalNews) > 0 {
			sections = append(sections, struct {
				name  string
				items []CompilerItem
			}{sectionInternational, s.InternationalNews})
		}
	} else {
		sections = groupBySection(s.News)
	}

	total := 0
	for _, sec := range sections {
		for _, it := range sec.items {
			if topicText(it) != "" {
				total++
			}
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("compiler output contains no usable topics")
	}

	blocks := []*Block{{
		Scene: SceneIntro,
		Text:  strings.TrimSpace(s.Opening),
	}}

	index := 0
	for _, sec := range sections {
		if sec.name != "" {
			blocks = append(blocks, &Block{
				Scene: SceneSection,
				Title: sec.name,
				Text:  sec.name,
			})
		}
		for _, it := range sec.items {
			text := topicText(it)
			if text == "" {
				continue
			}
			index++
			blocks = append(blocks, &Block{
				Scene: SceneTopic,
				Title: strings.TrimSpace(it.Title),
				Text:  text,
				Index: index,
				Total: total,
			})
		}
	}

	blocks = append(blocks, &Block{
		Scene: SceneOutro,
		Text:  strings.TrimSpace(s.Closing),
	})

	return blocks, nil
}

// groupBySection preserves first-appearance order of section tags. Untagged
// items form a single unnamed group.
func groupBySection(items []CompilerItem) []struct {
	name  string
	items []CompilerItem
} {
	var groups []struct {
		name  string
		items []CompilerItem
	}
	at := map[string]int{}

	for _, it := range items {
		name := strings.TrimSpace(it.Section)
		i, ok := at[name]
		if !ok {
			i = len(groups)
			at[name] = i
			groups = append(groups, struct {
				name  string
				items []CompilerItem
			}{name: name})
		}
		groups[i].items = append(groups[i].items, it)
	}
	return groups
}

func topicText(it CompilerItem) string {
	content := strings.TrimSpace(it.Content)
	if content != "" {
		return content
	}
	return strings.TrimSpace(it.Title)
}
