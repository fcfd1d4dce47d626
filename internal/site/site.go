package site

const (
	SECTION_HERO       = "hero"
	SECTION_HIGHLIGHTS = "highlights"
	SECTION_SCHEDULE   = "schedule"
	SECTION_WINNERS    = "winners"
	SECTION_RULES      = "rules"
)

type Options struct {
	ShowWinners bool
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Hero struct {
	Edition  string `json:"edition"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Stats    []Stat `json:"stats"`
}

type Highlight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Event struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Winner struct {
	Place       string   `json:"place"`
	TeamName    string   `json:"teamName"`
	ProjectName string   `json:"projectName"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
}

type RuleCategory struct {
	Title string   `json:"title"`
	Rules []string `json:"rules"`
}

// Section is one block of the landing page. Exactly one of the content
// fields is set, matching ID.
type Section struct {
	ID         string         `json:"id"`
	Heading    string         `json:"heading"`
	Hero       *Hero          `json:"hero,omitempty"`
	Highlights []Highlight    `json:"highlights,omitempty"`
	Schedule   []Event        `json:"schedule,omitempty"`
	Winners    []Winner       `json:"winners,omitempty"`
	Rules      []RuleCategory `json:"rules,omitempty"`
}

type Page struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Compose builds the landing page in display order. Winners are left out
// unless the event is over and opts.ShowWinners is set.
func Compose(opts Options) Page {
	page := Page{Title: EVENT_NAME}

	page.Sections = append(page.Sections,
		Section{ID: SECTION_HERO, Heading: EVENT_NAME, Hero: &hero},
		Section{ID: SECTION_HIGHLIGHTS, Heading: "What Makes Us Different", Highlights: highlights},
		Section{ID: SECTION_SCHEDULE, Heading: "Mark Your Calendar", Schedule: schedule},
	)
	if opts.ShowWinners {
		page.Sections = append(page.Sections,
			Section{ID: SECTION_WINNERS, Heading: "Meet Our Champions", Winners: winners})
	}
	page.Sections = append(page.Sections,
		Section{ID: SECTION_RULES, Heading: "Rules & Regulations", Rules: rules})

	return page
}

func (p Page) IDs() []string {
	ids := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		ids[i] = s.ID
	}
	return ids
}
