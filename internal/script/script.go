package script

// scene classification for a narration block
type Scene string

const (
	SceneIntro   Scene = "intro"
	SceneSection Scene = "section"
	SceneTopic   Scene = "topic"
	SceneOutro   Scene = "outro"
)

// Block is one narration unit: its spoken text, the subtitle chunks derived
// from it, and the audio duration measured after synthesis.
type Block struct {
	Scene     Scene
	Title     string
	Text      string
	Subtitles []string

	// seconds, zero until synthesis completes
	Duration float64

	// 1-based display counters, topic blocks only
	Index int
	Total int
}

// read-only view over heterogeneous news item shapes
type Item interface {
	Title() string
	Summary() string
	Source() string
}

type fieldsItem struct {
	title   string
	summary string
	source  string
}

func (f fieldsItem) Title() string   { return f.title }
func (f fieldsItem) Summary() string { return f.summary }
func (f fieldsItem) Source() string  { return f.source }

// NewItem adapts plain string fields to the Item view.
func NewItem(title, summary, source string) Item {
	return fieldsItem{title: title, summary: summary, source: source}
}

type mapItem map[string]any

func (m mapItem) Title() string   { return m.str("title") }
func (m mapItem) Summary() string { return m.str("summary", "content", "desc") }
func (m mapItem) Source() string  { return m.str("source") }

func (m mapItem) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// AdaptMap adapts a dict-shaped news item to the Item view.
func AdaptMap(m map[string]any) Item {
	return mapItem(m)
}

// Producer yields the episode's ordered block sequence. Both the compiler
// output and the local fallback builder implement it, so the pipeline never
// branches on where the script came from.
type Producer interface {
	Blocks() ([]*Block, error)
}

// Select returns the compiler-backed producer when its output is usable and
// the local fallback otherwise.
func Select(compiled *CompilerOutput, items []Item) Producer {
	if compiled != nil && compiled.usable() {
		return &compilerProducer{script: compiled}
	}
	return &fallbackProducer{items: items}
}
