package assistant

// User identifies the person behind a chat session. Phone doubles as the user id.
type User struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	User      User   `json:"user"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	ReplyText string `json:"reply"`
	SessionID string `json:"session_id"`
	UI        *UI    `json:"ui,omitempty"`
	Debug     *Debug `json:"debug,omitempty"`
}

// UI carries optional rendering hints for the chat front-end.
type UI struct {
	QuickReplies []string     `json:"chips,omitempty"`
	OptionCards  []OptionCard `json:"cards,omitempty"`
	PaymentLink  *PaymentLink `json:"link_preview,omitempty"`
}

type OptionCard struct {
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	ActionLabel   string `json:"action_text"`
	ActionPayload string `json:"action_payload"`
}

// PaymentLink points at the external payment page. The URL ends with the payment reference.
type PaymentLink struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Debug struct {
	Intent Intent `json:"intent"`
	State  string `json:"state"`
}

func chips(values ...string) *UI {
	return &UI{QuickReplies: values}
}
