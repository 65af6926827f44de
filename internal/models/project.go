package models

// Project is the normalized, render-ready project shown on the dashboard.
type Project struct {
	ID         string          `json:"id"`
	Property   Property        `json:"property"`
	Contractor Contractor      `json:"contractor"`
	Status     string          `json:"status"`
	Schedule   Schedule        `json:"schedule"`
	Financials Financials      `json:"financials"`
	Timeline   []TimelineEvent `json:"timeline"`
	Photos     []Photo         `json:"photos"`
	Documents  []Document      `json:"documents"`
	Messages   []Message       `json:"messages"`
}

type Property struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

type Contractor struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Schedule struct {
	InstallDate   string `json:"installDate"`
	ArrivalWindow string `json:"arrivalWindow"`
}

type Milestone struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Paid   bool    `json:"paid"`
}

// Financials is display only. No payment is ever processed.
type Financials struct {
	EstimateTotal float64     `json:"estimateTotal"`
	Paid          float64     `json:"paid"`
	Outstanding   float64     `json:"outstanding"`
	Milestones    []Milestone `json:"milestones"`
}

type TimelineEvent struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Done  bool   `json:"done"`
}

type Photo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Document struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Size    string `json:"size"`
	FileURL string `json:"file_url"`
}

type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	At   string `json:"at"`
	Text string `json:"text"`
}

// Progress returns round(100 * done / max(1, total)) over the timeline.
func (p *Project) Progress() int {
	if p == nil {
		return 0
	}
	done := 0
	for _, t := range p.Timeline {
		if t.Done {
			done++
		}
	}
	total := len(p.Timeline)
	if total < 1 {
		total = 1
	}
	// integer round-half-up of 100*done/total
	return (200*done + total) / (2 * total)
}

// Upcoming returns up to n timeline events that are not done yet, in timeline order.
func (p *Project) Upcoming(n int) []TimelineEvent {
	if p == nil {
		return nil
	}
	var out []TimelineEvent
	for _, t := range p.Timeline {
		if len(out) == n {
			break
		}
		if !t.Done {
			out = append(out, t)
		}
	}
	return out
}

// Document looks up a document of the project by ID.
func (p *Project) Document(id string) (Document, bool) {
	if p == nil {
		return Document{}, false
	}
	for _, d := range p.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// ProjectView is the view model handed to the dashboard. Project is nil for
// the empty "no project yet" state.
type ProjectView struct {
	Mode    string   `json:"mode"`
	Session *Session `json:"session,omitempty"`
	Project *Project `json:"project"`
	// ProjectRef is the full stored project ID used for writes. Empty in demo mode.
	ProjectRef string `json:"-"`
	Progress   int    `json:"progress"`
	CanMessage bool   `json:"canMessage"`
}
