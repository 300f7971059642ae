// Package i18n holds the user-facing English and Swahili strings.
package i18n

import (
	"regexp"
	"strings"
)

// Language is a response language.
type Language string

const (
	English Language = "english"
	Swahili Language = "swahili"
)

// ParseLanguage accepts "english"/"swahili" and their short codes.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en", "kiingereza":
		return English, true
	case "swahili", "sw", "kiswahili":
		return Swahili, true
	}
	return "", false
}

// Key names a translatable message.
type Key string

const (
	NoContent         Key = "noContent"
	NoQuestion        Key = "noQuestion"
	NotAnswerable     Key = "notAnswerable"
	NoRelevant        Key = "noRelevant"
	ProgramsIntro     Key = "programsIntro"
	ProgramsMissing   Key = "programsMissing"
	FeesIntro         Key = "feesIntro"
	FeesNote          Key = "feesNote"
	FeesNotFound      Key = "feesNotFound"
	RequirementsIntro Key = "requirementsIntro"
	ContactIntro      Key = "contactIntro"
	KeyPointsIntro    Key = "keyPointsIntro"
	CampusInfo        Key = "campusInfo"
	LanguageChanged   Key = "languageChanged"
	LanguageHelp      Key = "languageHelp"
	Unprocessable     Key = "unprocessable"
)

var tables = map[Language]map[Key]string{
	English: {
		NoContent:  "No prospectus content has been uploaded yet. Please upload a prospectus PDF first through the admin dashboard to enable question and answer functionality.",
		NoQuestion: "Please ask a question about the prospectus.",
		NotAnswerable: "I couldn't find specific information about \"{question}\" in the uploaded prospectus.\n\n" +
			"The document contains information about:\n" +
			"• Academic programs and courses\n• Admission requirements\n• Fees and financial information\n" +
			"• Campus facilities and services\n• Contact information\n\n" +
			"Please try asking about one of these topics, or contact DIT directly at +255-22-2150174 for more information.\n\n" +
			"Tip: Try asking \"What programs are available?\" or \"What are the fees?\"",
		NoRelevant:        "I couldn't find relevant information in the uploaded prospectus to answer that question. Please try rephrasing or ask about programs, fees, admission requirements or contacts.",
		ProgramsIntro:     "DIT offers the following programs:",
		ProgramsMissing:   "I found program information in the prospectus but couldn't list specific program names. Please check the programs section of the prospectus or contact DIT directly.",
		FeesIntro:         "Here are the fees at DIT:",
		FeesNote:          "Note: Fees may vary by program level and campus. Contact DIT directly for the most current fee structure.",
		FeesNotFound:      "I found the prospectus but couldn't locate specific fee amounts in the current content.\n\nFor detailed fee information, please:\n1. Contact DIT directly at +255-22-2150174\n2. Email: info@dit.ac.tz\n3. Visit: www.dit.ac.tz\n4. Check the fees chapter of the full prospectus",
		RequirementsIntro: "Admission requirements:",
		ContactIntro:      "Contact information:",
		KeyPointsIntro:    "Based on the prospectus:",
		CampusInfo:        "DIT has multiple campuses including Dar es Salaam (main), Mwanza, and Myunga campuses offering various levels from certificates to master's degrees.",
		LanguageChanged:   "Language changed to English. I will now respond in English.",
		LanguageHelp:      "Available commands:\n• \"Change language to Swahili\" - Switch to Swahili\n• \"Change language to English\" - Switch to English",
		Unprocessable:     "I'm unable to process that question right now. Please try again or rephrase it.",
	},
	Swahili: {
		NoContent:  "Hakuna maudhui ya prospektasi yaliyopakiwa bado. Tafadhali pakia PDF ya prospektasi kwanza kupitia dashibodi ya msimamizi ili kuwezesha utendaji wa maswali na majibu.",
		NoQuestion: "Tafadhali uliza swali kuhusu prospektasi.",
		NotAnswerable: "Sikuweza kupata maelezo maalum kuhusu \"{question}\" katika prospektasi iliyopakiwa.\n\n" +
			"Hati hii ina maelezo kuhusu:\n" +
			"• Mipango ya kitaaluma na kozi\n• Mahitaji ya kujiunga\n• Ada na maelezo ya kifedha\n" +
			"• Vifaa vya kampu na huduma\n• Maelezo ya mawasiliano\n\n" +
			"Tafadhali jaribu kuuliza kuhusu moja ya mada hizi, au wasiliana na DIT moja kwa moja kwa +255-22-2150174 kwa maelezo zaidi.\n\n" +
			"Kidokezo: Jaribu kuuliza \"Ni mipango gani inayopatikana?\" au \"Ada ni ngapi?\"",
		NoRelevant:        "Sikuweza kupata maelezo yanayohusiana katika prospektasi iliyopakiwa kujibu swali hilo. Tafadhali uliza kwa njia nyingine au uliza kuhusu mipango, ada, mahitaji ya kujiunga au mawasiliano.",
		ProgramsIntro:     "DIT inatoa mipango ifuatayo:",
		ProgramsMissing:   "Nimepata maelezo ya mipango katika prospektasi lakini sikuweza kuorodhesha majina maalum ya mipango. Tafadhali angalia sehemu ya mipango au wasiliana na DIT moja kwa moja.",
		FeesIntro:         "Hapa kuna ada za DIT:",
		FeesNote:          "Kumbuka: Ada zinaweza kutofautiana kulingana na kiwango cha mpango na kampu. Wasiliana na DIT moja kwa moja kwa muundo wa ada wa sasa.",
		FeesNotFound:      "Nimepata prospektasi lakini sikuweza kupata kiasi maalum cha ada katika maudhui ya sasa.\n\nKwa maelezo ya kina ya ada, tafadhali:\n1. Wasiliana na DIT moja kwa moja kwa +255-22-2150174\n2. Barua pepe: info@dit.ac.tz\n3. Tembelea: www.dit.ac.tz\n4. Angalia sura ya ada katika prospektasi kamili",
		RequirementsIntro: "Mahitaji ya kujiunga:",
		ContactIntro:      "Maelezo ya mawasiliano:",
		KeyPointsIntro:    "Kulingana na prospektasi:",
		CampusInfo:        "DIT ina kampu nyingi ikiwa ni pamoja na Dar es Salaam (kuu), Mwanza, na kampu za Myunga zinazotoa viwango mbalimbali kutoka vyeti hadi shahada za uzamili.",
		LanguageChanged:   "Lugha imebadilishwa kuwa Kiswahili. Sasa nitajibu kwa Kiswahili.",
		LanguageHelp:      "Amri zinazopatikana:\n• \"Badilisha lugha kuwa Kiswahili\" - Badili kuwa Kiswahili\n• \"Badilisha lugha kuwa Kiingereza\" - Badili kuwa Kiingereza",
		Unprocessable:     "Siwezi kushughulikia swali hilo kwa sasa. Tafadhali jaribu tena au uliza kwa njia nyingine.",
	},
}

// Text returns the message for key in lang, falling back to English and
// then to the key itself. Placeholders written as {name} are replaced.
func Text(lang Language, key Key, replacements map[string]string) string {
	text, ok := tables[lang][key]
	if !ok {
		text, ok = tables[English][key]
	}
	if !ok {
		text = string(key)
	}
	for k, v := range replacements {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

var swahiliWords = []struct {
	re  *regexp.Regexp
	out string
}{
	{regexp.MustCompile(`(?i)\bprograms\b`), "mipango"},
	{regexp.MustCompile(`(?i)\bfees\b`), "ada"},
	{regexp.MustCompile(`(?i)\buniversity\b`), "chuo kikuu"},
	{regexp.MustCompile(`(?i)\bengineering\b`), "uhandisi"},
	{regexp.MustCompile(`(?i)\btechnology\b`), "teknolojia"},
	{regexp.MustCompile(`(?i)\bbachelor\b`), "shahada ya kwanza"},
	{regexp.MustCompile(`(?i)\bcertificate\b`), "cheti"},
	{regexp.MustCompile(`(?i)\bmaster\b`), "uzamili"},
	{regexp.MustCompile(`(?i)\bcampus\b`), "kampu"},
	{regexp.MustCompile(`(?i)\bstudents\b`), "wanafunzi"},
	{regexp.MustCompile(`(?i)\badmission\b`), "kujiunga"},
	{regexp.MustCompile(`(?i)\brequirements\b`), "mahitaji"},
}

// TranslateToSwahili swaps a fixed set of common prospectus words.
func TranslateToSwahili(text string) string {
	for _, w := range swahiliWords {
		text = w.re.ReplaceAllString(text, w.out)
	}
	return text
}

// Localize returns text unchanged for English and word-translated for Swahili.
func Localize(lang Language, text string) string {
	if lang == Swahili {
		return TranslateToSwahili(text)
	}
	return text
}
