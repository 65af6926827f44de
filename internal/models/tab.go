package models

// Tab is one of the six dashboard tabs.
type Tab string

const (
	TabOverview  Tab = "overview"
	TabTimeline  Tab = "timeline"
	TabPhotos    Tab = "photos"
	TabDocuments Tab = "documents"
	TabMessages  Tab = "messages"
	TabPayments  Tab = "payments"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabOverview, TabTimeline, TabPhotos, TabDocuments, TabMessages, TabPayments}

// ParseTab maps a query value to a Tab. Unknown values fall back to the overview.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabOverview
}

// Label is the button caption for the tab.
func (t Tab) Label() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabTimeline:
		return "Timeline"
	case TabPhotos:
		return "Photos"
	case TabDocuments:
		return "Documents"
	case TabMessages:
		return "Messages"
	case TabPayments:
		return "Payments"
	}
	panic("models: unknown tab " + string(t))
}

// Template names the template block that renders the tab body.
func (t Tab) Template() string {
	switch t {
	case TabOverview:
		return "tab_overview"
	case TabTimeline:
		return "tab_timeline"
	case TabPhotos:
		return "tab_photos"
	case TabDocuments:
		return "tab_documents"
	case TabMessages:
		return "tab_messages"
	case TabPayments:
		return "tab_payments"
	}
	panic("models: unknown tab " + string(t))
}
