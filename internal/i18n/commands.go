package i18n

import "strings"

// Command is an in-band instruction found in a question.
type Command int

const (
	CommandNone Command = iota
	CommandSwahili
	CommandEnglish
	CommandHelp
)

var (
	toSwahili = []string{
		"change language to swahili", "switch to swahili", "speak swahili", "use swahili",
		"badilisha lugha kuwa kiswahili", "tumia kiswahili",
	}
	toEnglish = []string{
		"badilisha lugha kuwa kiingereza", "badilisha lugha kuwa kingereza",
		"change language to english", "switch to english", "tumia kiingereza",
	}
	languageHelp = []string{"language help", "msaada wa lugha", "lugha"}
)

// DetectCommand recognises language switch and help commands.
func DetectCommand(question string) Command {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, toSwahili):
		return CommandSwahili
	case containsAny(q, toEnglish):
		return CommandEnglish
	case containsAny(q, languageHelp):
		return CommandHelp
	}
	return CommandNone
}

var quickResponses = []struct {
	key   string
	reply string
}{
	{"hello", "Hello. What would you like to know about the prospectus?"},
	{"hi", "Hi. What information do you need?"},
	{"help", "I can help with questions about programs, fees, admission requirements, and other prospectus information."},
	{"what can you do", "I can answer questions about programs, fees, admission requirements, and other information from the prospectus."},
	{"test", "Working."},
	{"status", "Online."},
	{"ping", "Online."},
}

// QuickResponse answers greetings and status checks without retrieval.
// Single-word keys only match short questions so that "which" or
// "help me compare fees" still reach the composer.
func QuickResponse(question string) (string, bool) {
	q := strings.Trim(strings.ToLower(strings.TrimSpace(question)), "?!. ")
	if q == "" {
		return "", false
	}
	for _, r := range quickResponses {
		if q == r.key {
			return r.reply, true
		}
	}
	words := strings.Fields(q)
	for _, r := range quickResponses {
		if strings.Contains(r.key, " ") {
			if strings.Contains(q, r.key) {
				return r.reply, true
			}
			continue
		}
		if len(words) > 3 {
			continue
		}
		for _, w := range words {
			if strings.Trim(w, ",;:!?.") == r.key {
				return r.reply, true
			}
		}
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
