package model

// Person is a local or federated user as returned by the instance.
type Person struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	ActorID     string `json:"actor_id"` // e.g. https://lemmy.ml/u/alice
	Local       bool   `json:"local"`
	Banned      bool   `json:"banned"`
	Deleted     bool   `json:"deleted"`
	BotAccount  bool   `json:"bot_account"`
	Published   string `json:"published"`
}

// PrivateMessage is the raw row. Published is kept as the server string and
// compared lexicographically for ordering.
type PrivateMessage struct {
	ID          int    `json:"id"`
	CreatorID   int    `json:"creator_id"`
	RecipientID int    `json:"recipient_id"`
	Content     string `json:"content"`
	Deleted     bool   `json:"deleted"`
	Read        bool   `json:"read"`
	Published   string `json:"published"`
	Updated     string `json:"updated,omitempty"`
	ApID        string `json:"ap_id"`
	Local       bool   `json:"local"`
}

// PrivateMessageView joins a message with its creator and recipient.
type PrivateMessageView struct {
	PrivateMessage PrivateMessage `json:"private_message"`
	Creator        Person         `json:"creator"`
	Recipient      Person         `json:"recipient"`
}

func (PrivateMessageView) replyView() {}

type PrivateMessagesResponse struct {
	PrivateMessages []PrivateMessageView `json:"private_messages"`
}

type PrivateMessageResponse struct {
	PrivateMessageView PrivateMessageView `json:"private_message_view"`
}

type PrivateMessageReport struct {
	ID               int    `json:"id"`
	CreatorID        int    `json:"creator_id"`
	PrivateMessageID int    `json:"private_message_id"`
	OriginalContent  string `json:"original_pm_text"`
	Reason           string `json:"reason"`
	Resolved         bool   `json:"resolved"`
	Published        string `json:"published"`
}

type PrivateMessageReportView struct {
	PrivateMessageReport  PrivateMessageReport `json:"private_message_report"`
	PrivateMessage        PrivateMessage       `json:"private_message"`
	PrivateMessageCreator Person               `json:"private_message_creator"`
	Creator               Person               `json:"creator"`
}

type PrivateMessageReportResponse struct {
	PrivateMessageReportView PrivateMessageReportView `json:"private_message_report_view"`
}

type PurgeItemResponse struct {
	Success bool `json:"success"`
}

// Site is the subset of the instance metadata the client displays.
type Site struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Sidebar     string `json:"sidebar,omitempty"`
	Description string `json:"description,omitempty"`
	ActorID     string `json:"actor_id"`
}

type SiteView struct {
	Site Site `json:"site"`
}

type LocalUser struct {
	ID       int    `json:"id"`
	PersonID int    `json:"person_id"`
	Email    string `json:"email,omitempty"`
}

type LocalUserView struct {
	LocalUser LocalUser `json:"local_user"`
	Person    Person    `json:"person"`
}

// MyUserInfo is present in GetSiteResponse only for authenticated requests.
type MyUserInfo struct {
	LocalUserView LocalUserView `json:"local_user_view"`
}

type GetSiteResponse struct {
	SiteView SiteView    `json:"site_view"`
	Version  string      `json:"version"`
	MyUser   *MyUserInfo `json:"my_user,omitempty"`
}

type LoginResponse struct {
	JWT                 string `json:"jwt,omitempty"`
	RegistrationCreated bool   `json:"registration_created"`
	VerifyEmailSent     bool   `json:"verify_email_sent"`
}

// Forms. Auth carries the JWT in the request body (or query for GET).

type Login struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
	Totp2faToken    string `json:"totp_2fa_token,omitempty"`
}

type GetSite struct {
	Auth string `json:"auth,omitempty"`
}

type GetPrivateMessages struct {
	UnreadOnly bool   `json:"unread_only"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Auth       string `json:"auth"`
}

type CreatePrivateMessage struct {
	Content     string `json:"content"`
	RecipientID int    `json:"recipient_id"`
	Auth        string `json:"auth"`
}

type EditPrivateMessage struct {
	PrivateMessageID int    `json:"private_message_id"`
	Content          string `json:"content"`
	Auth             string `json:"auth"`
}

type DeletePrivateMessage struct {
	PrivateMessageID int    `json:"private_message_id"`
	Deleted          bool   `json:"deleted"`
	Auth             string `json:"auth"`
}

type MarkPrivateMessageAsRead struct {
	PrivateMessageID int    `json:"private_message_id"`
	Read             bool   `json:"read"`
	Auth             string `json:"auth"`
}

type CreatePrivateMessageReport struct {
	PrivateMessageID int    `json:"private_message_id"`
	Reason           string `json:"reason"`
	Auth             string `json:"auth"`
}

type PurgePerson struct {
	PersonID int    `json:"person_id"`
	Reason   string `json:"reason,omitempty"`
	Auth     string `json:"auth"`
}
