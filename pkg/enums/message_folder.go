package enums

import "fmt"

// MessageFolder selects a per-user mailbox view.
type MessageFolder string

const (
	MessageFolderInbox     MessageFolder = "inbox"
	MessageFolderOutbox    MessageFolder = "outbox"
	MessageFolderDrafts    MessageFolder = "drafts"
	MessageFolderScheduled MessageFolder = "scheduled"
)

var validMessageFolders = []MessageFolder{
	MessageFolderInbox,
	MessageFolderOutbox,
	MessageFolderDrafts,
	MessageFolderScheduled,
}

// String implements fmt.Stringer.
func (m MessageFolder) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MessageFolder.
func (m MessageFolder) IsValid() bool {
	for _, candidate := range validMessageFolders {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageFolder converts raw input into a MessageFolder.
func ParseMessageFolder(value string) (MessageFolder, error) {
	for _, candidate := range validMessageFolders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message folder %q", value)
}
