package model

// ReplyKind tags which view a Reply wraps.
type ReplyKind int

const (
	ReplyKindComment ReplyKind = iota
	ReplyKindMention
	ReplyKindMessage
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyKindComment:
		return "reply"
	case ReplyKindMention:
		return "mention"
	case ReplyKindMessage:
		return "message"
	}
	return "unknown"
}

// ReplyView is implemented only by the view types in this package.
type ReplyView interface {
	replyView()
}

type Comment struct {
	ID        int    `json:"id"`
	CreatorID int    `json:"creator_id"`
	PostID    int    `json:"post_id"`
	Content   string `json:"content"`
	Published string `json:"published"`
}

type CommentReply struct {
	ID          int    `json:"id"`
	RecipientID int    `json:"recipient_id"`
	CommentID   int    `json:"comment_id"`
	Read        bool   `json:"read"`
	Published   string `json:"published"`
}

type CommentReplyView struct {
	CommentReply CommentReply `json:"comment_reply"`
	Comment      Comment      `json:"comment"`
	Creator      Person       `json:"creator"`
	Recipient    Person       `json:"recipient"`
}

func (CommentReplyView) replyView() {}

type PersonMention struct {
	ID          int    `json:"id"`
	RecipientID int    `json:"recipient_id"`
	CommentID   int    `json:"comment_id"`
	Read        bool   `json:"read"`
	Published   string `json:"published"`
}

type PersonMentionView struct {
	PersonMention PersonMention `json:"person_mention"`
	Comment       Comment       `json:"comment"`
	Creator       Person        `json:"creator"`
	Recipient     Person        `json:"recipient"`
}

func (PersonMentionView) replyView() {}

// Reply puts comment replies, mentions and private messages on one
// chronological feed.
type Reply struct {
	ID        int
	Kind      ReplyKind
	View      ReplyView
	Published string
}

func ReplyFromCommentReply(v CommentReplyView) Reply {
	return Reply{ID: v.CommentReply.ID, Kind: ReplyKindComment, View: v, Published: v.Comment.Published}
}

func ReplyFromMention(v PersonMentionView) Reply {
	return Reply{ID: v.PersonMention.ID, Kind: ReplyKindMention, View: v, Published: v.Comment.Published}
}

func ReplyFromMessage(v PrivateMessageView) Reply {
	return Reply{ID: v.PrivateMessage.ID, Kind: ReplyKindMessage, View: v, Published: v.PrivateMessage.Published}
}

// Message returns the wrapped private message, if that is what r holds.
func (r Reply) Message() (PrivateMessageView, bool) {
	v, ok := r.View.(PrivateMessageView)
	return v, ok
}
