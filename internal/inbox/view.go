package inbox

import (
	"fmt"
	"sort"

	"lemmyterm/internal/model"
)

// BuildCombined wraps every message of a successful page in a Reply, newest
// first. Published is compared as a string; the sort is stable, so equal
// timestamps keep server order.
func (b *Inbox) BuildCombined() []model.Reply {
	if !b.state.MessagesRes.IsSuccess() {
		return []model.Reply{}
	}
	pms := b.state.MessagesRes.Data.PrivateMessages
	out := make([]model.Reply, 0, len(pms))
	for _, pm := range pms {
		out = append(out, model.ReplyFromMessage(pm))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published > out[j].Published
	})
	return out
}

// Messages returns the messages sent to the selected recipient. Empty when
// nothing is selected.
func (b *Inbox) Messages() []model.PrivateMessageView {
	out := []model.PrivateMessageView{}
	if !b.state.MessagesRes.IsSuccess() || b.state.Recipient == nil {
		return out
	}
	want := *b.state.Recipient
	for _, pm := range b.state.MessagesRes.Data.PrivateMessages {
		if pm.Recipient.ID == want {
			out = append(out, pm)
		}
	}
	return out
}

// Recipients lists who the loaded messages were sent to, without the
// logged-in user, once each, in first-seen order.
func (b *Inbox) Recipients() []model.Person {
	out := []model.Person{}
	if !b.state.MessagesRes.IsSuccess() {
		return out
	}
	me, haveMe := b.myPersonID()
	seen := make(map[int]struct{})
	for _, pm := range b.state.MessagesRes.Data.PrivateMessages {
		r := pm.Recipient
		if haveMe && r.ID == me {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (b *Inbox) SelectRecipient(id int) {
	b.state.Recipient = &id
}

func (b *Inbox) ClearRecipient() {
	b.state.Recipient = nil
}

func (b *Inbox) Recipient() (int, bool) {
	if b.state.Recipient == nil {
		return 0, false
	}
	return *b.state.Recipient, true
}

func (b *Inbox) Loading() bool { return b.state.MessagesRes.IsLoading() }

// DocumentTitle is "@name messages - Site" for a known user, else "".
func (b *Inbox) DocumentTitle() string {
	if b.auth == nil {
		return ""
	}
	mui := b.auth.MyUserInfo()
	if mui == nil {
		return ""
	}
	return fmt.Sprintf("@%s messages - %s", mui.LocalUserView.Person.Name, b.state.Site.SiteView.Site.Name)
}

// InboxFeedPath is the instance-relative RSS feed of the inbox, or "" when
// logged out.
func (b *Inbox) InboxFeedPath() string {
	token, ok := b.authToken()
	if !ok {
		return ""
	}
	return "/feeds/inbox/" + token + ".xml"
}
