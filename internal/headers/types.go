package headers

// Summary lists the header fields shown next to a processed message
type Summary struct {
	From      string   `json:"from,omitempty"`
	To        []string `json:"to,omitempty"`
	Subject   string   `json:"subject,omitempty"`
	MessageID string   `json:"message_id,omitempty"`
	Fields    int      `json:"fields"`
}

// Empty reports whether none of the displayed fields were found
func (s *Summary) Empty() bool {
	return s.From == "" && len(s.To) == 0 && s.Subject == "" && s.MessageID == ""
}
