package api

import "net/url"

// Notice is a fixed message shown as a banner after a redirect. Only the code
// travels in the URL, so nothing user-supplied is ever echoed back.
type Notice string

const (
	NoticeDemoStorage         Notice = "demo-storage"
	NoticeDocumentUnavailable Notice = "document-unavailable"
	NoticeMessageEmpty        Notice = "message-empty"
	NoticeMessagingDisabled   Notice = "messaging-disabled"
	NoticeMessageSent         Notice = "message-sent"
	NoticeSignedOut           Notice = "signed-out"
	NoticeLinkExpired         Notice = "link-expired"
	NoticeInvalidInvite       Notice = "invalid-invite"
	NoticeNoAdmin             Notice = "no-admin"
	NoticeProjectCreated      Notice = "project-created"
	NoticeProjectInvited      Notice = "project-invited"
	NoticeAccessGranted       Notice = "access-granted"
	NoticeMemberInvited       Notice = "member-invited"
	NoticeHomeownerAdded      Notice = "homeowner-added"
	NoticeHomeownerRevoked    Notice = "homeowner-revoked"
)

type noticeInfo struct {
	text  string
	isErr bool
}

var notices = map[Notice]noticeInfo{
	NoticeDemoStorage:         {"Demo: not connected to storage.", true},
	NoticeDocumentUnavailable: {"That document is not available.", true},
	NoticeMessageEmpty:        {"Type a message before sending.", true},
	NoticeMessagingDisabled:   {"Messaging is available once your project is live.", true},
	NoticeMessageSent:         {"Message sent.", false},
	NoticeSignedOut:           {"You have been signed out.", false},
	NoticeLinkExpired:         {"That sign-in link is invalid or has expired. Request a new one.", true},
	NoticeInvalidInvite:       {"That invite link is not valid.", true},
	NoticeNoAdmin:             {"No admin access on this account.", true},
	NoticeProjectCreated:      {"Project created.", false},
	NoticeProjectInvited:      {"Invite sent. After the homeowner logs in, open this project and click 'Add Member'.", false},
	NoticeAccessGranted:       {"Access granted.", false},
	NoticeMemberInvited:       {"Invite sent. Add them after they log in at least once.", false},
	NoticeHomeownerAdded:      {"Homeowner added. Share the invite link below.", false},
	NoticeHomeownerRevoked:    {"Access revoked.", false},
}

// Banner is what templates render for a notice.
type Banner struct {
	Text  string
	Error bool
}

// parseNotice looks a query value up in the closed set. Unknown codes render nothing.
func parseNotice(code string) *Banner {
	info, ok := notices[Notice(code)]
	if !ok {
		return nil
	}
	return &Banner{Text: info.text, Error: info.isErr}
}

// errorBanner is a blocking banner carrying an error message.
func errorBanner(msg string) *Banner {
	return &Banner{Text: msg, Error: true}
}

// withNotice appends notice to a path that may already have a query.
func withNotice(path string, n Notice) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set("notice", string(n))
	u.RawQuery = q.Encode()
	return u.String()
}
