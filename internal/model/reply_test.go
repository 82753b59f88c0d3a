package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyConstructors(t *testing.T) {
	comment := Comment{ID: 40, Content: "nice post", Published: "2024-03-01T10:00:00Z"}

	tests := []struct {
		name      string
		reply     Reply
		kind      ReplyKind
		id        int
		published string
		isMessage bool
	}{
		{
			name: "comment reply",
			reply: ReplyFromCommentReply(CommentReplyView{
				CommentReply: CommentReply{ID: 7, CommentID: 40, Published: "2024-03-01T10:00:05Z"},
				Comment:      comment,
			}),
			kind:      ReplyKindComment,
			id:        7,
			published: "2024-03-01T10:00:00Z",
		},
		{
			name: "mention",
			reply: ReplyFromMention(PersonMentionView{
				PersonMention: PersonMention{ID: 8, CommentID: 40},
				Comment:       comment,
			}),
			kind:      ReplyKindMention,
			id:        8,
			published: "2024-03-01T10:00:00Z",
		},
		{
			name: "private message",
			reply: ReplyFromMessage(PrivateMessageView{
				PrivateMessage: PrivateMessage{ID: 9, Published: "2024-03-02T00:00:00Z"},
			}),
			kind:      ReplyKindMessage,
			id:        9,
			published: "2024-03-02T00:00:00Z",
			isMessage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.reply.Kind)
			assert.Equal(t, tt.id, tt.reply.ID)
			assert.Equal(t, tt.published, tt.reply.Published)

			pm, ok := tt.reply.Message()
			assert.Equal(t, tt.isMessage, ok)
			if ok {
				assert.Equal(t, tt.id, pm.PrivateMessage.ID)
			}
		})
	}
}

func TestReplyKindString(t *testing.T) {
	assert.Equal(t, "reply", ReplyKindComment.String())
	assert.Equal(t, "mention", ReplyKindMention.String())
	assert.Equal(t, "message", ReplyKindMessage.String())
	assert.Equal(t, "unknown", ReplyKind(99).String())
}
