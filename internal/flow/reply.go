package flow

// Button keys understood by the machine. Payloads carry category or book ids.
const (
	KeyHome             = "home"
	KeyCategories       = "cats"
	KeyCategory         = "cat"
	KeyBook             = "book"
	KeyDownload         = "dl"
	KeySearch           = "search_ask"
	KeyCancel           = "cancel"
	KeyAdminAdd         = "admin_add"
	KeyAdminSetCategory = "admin_set_cat"
	KeyAdminNewCategory = "admin_new_cat"
)

// Keys lists every button key, for registering callback handlers.
var Keys = []string{
	KeyHome, KeyCategories, KeyCategory, KeyBook, KeyDownload, KeySearch,
	KeyCancel, KeyAdminAdd, KeyAdminSetCategory, KeyAdminNewCategory,
}

// Action is a labelled button offered with a reply. Each action renders on its own row.
type Action struct {
	Label   string
	Key     string
	Payload string
}

// Document asks the renderer to deliver a stored file.
type Document struct {
	Reference string
	FileName  string
	Caption   string
}

// Reply is the machine's answer to one event.
type Reply struct {
	Text     string
	Actions  []Action
	Document *Document
	// Alert marks short notices that a button press should show as a popup.
	Alert bool
	// Err classifies a rejected or failed event; nil on success.
	Err error
}

func notice(err error, text string) Reply {
	return Reply{Text: text, Alert: true, Err: err}
}
