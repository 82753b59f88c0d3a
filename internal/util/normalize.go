package util

import (
	"net/url"
	"strings"
)

// NormalizeActor turns a federated actor id into a handle.
// - "https://Lemmy.ML/u/Alice" -> "alice@lemmy.ml"
// - "https://beehaw.org/c/news" -> "news@beehaw.org" (communities share the shape)
// - an existing handle "@bob@example.com" is lowercased and trimmed of the leading @
// Returns empty string if the value cannot be parsed.
func NormalizeActor(actorID string) string {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ""
	}
	if !strings.Contains(actorID, "://") {
		h := strings.ToLower(strings.TrimPrefix(actorID, "@"))
		at := strings.IndexByte(h, '@')
		if at <= 0 || at == len(h)-1 {
			return ""
		}
		return h
	}

	u, err := url.Parse(actorID)
	if err != nil || u.Host == "" {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 || segs[len(segs)-1] == "" {
		return ""
	}
	name := strings.ToLower(segs[len(segs)-1])
	return name + "@" + strings.ToLower(u.Hostname())
}

// DisplayName picks the label shown for a person: display name if set,
// otherwise the handle, otherwise the bare name.
func DisplayName(name, displayName, actorID string) string {
	if d := strings.TrimSpace(displayName); d != "" {
		return d
	}
	if h := NormalizeActor(actorID); h != "" {
		return h
	}
	return name
}
