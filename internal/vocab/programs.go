package vocab

import "regexp"

// ProgramNames are the program titles recognised by list extraction.
var ProgramNames = []string{
	// engineering
	"CIVIL ENGINEERING",
	"COMPUTER ENGINEERING",
	"ELECTRICAL ENGINEERING",
	"ELECTRONICS AND TELECOMMUNICATIONS ENGINEERING",
	"ELECTRONICS AND TELECOMMUNICATION ENGINEERING",
	"MECHANICAL ENGINEERING",
	"BIOMEDICAL ENGINEERING",
	"BIOMEDICAL EQUIPMENT ENGINEERING",
	"SUSTAINABLE ENERGY ENGINEERING",
	"MINING ENGINEERING",
	"OIL AND GAS ENGINEERING",
	// technology
	"INFORMATION TECHNOLOGY",
	"COMPUTER STUDIES",
	"MULTIMEDIA AND FILM TECHNOLOGY",
	"COMMUNICATION SYSTEM TECHNOLOGY",
	"RENEWABLE ENERGY TECHNOLOGY",
	"BIOTECHNOLOGY",
	"FOOD SCIENCE AND TECHNOLOGY",
	"LEATHER PRODUCTS TECHNOLOGY",
	"LEATHER PROCESSING TECHNOLOGY",
	"SCIENCE AND LABORATORY TECHNOLOGY",
	"INDUSTRIAL AUTOMATION",
	"TEXTILE TECHNOLOGY",
	"POST-HARVEST TECHNOLOGY",
	"FASHION AND DESIGN TECHNOLOGY",
	"BIOPROCESS TECHNOLOGY",
	// science
	"COMPUTATIONAL SCIENCE AND ENGINEERING",
	"CYBERSECURITY AND DIGITAL FORENSICS",
	"TELECOMMUNICATIONS SYSTEMS AND NETWORKS",
	"MAINTENANCE MANAGEMENT",
	"COMPUTING AND COMMUNICATIONS TECHNOLOGY",
}

// ProgramLevel pairs a display level with the upper-case prefixes that name it.
type ProgramLevel struct {
	Name     string
	Prefixes []string
}

// ProgramLevels are checked in order for each recognised program.
var ProgramLevels = []ProgramLevel{
	{Name: "Bachelor", Prefixes: []string{"BACHELOR OF ", "BACHELOR IN "}},
	{Name: "Master", Prefixes: []string{"MASTER OF ", "MASTER IN "}},
	{Name: "Diploma", Prefixes: []string{"DIPLOMA IN ", "ORDINARY DIPLOMA IN ", "DIPLOMA OF "}},
	{Name: "Certificate", Prefixes: []string{"CERTIFICATE IN ", "TECHNICIAN CERTIFICATE IN "}},
}

// DepartmentPattern captures "Department of X" headings.
var DepartmentPattern = regexp.MustCompile(`(?i)Department of ([^(\n]+)`)

// FeeAmountPatterns capture currency amounts and labelled fee fields.
var FeeAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TSh\s*[\d,]+`),
	regexp.MustCompile(`(?i)KSh\s*[\d,]+`),
	regexp.MustCompile(`(?i)USD\s*[\d,]+`),
	regexp.MustCompile(`(?i)fees?\s*[:=]\s*TSh\s*[\d,]+`),
	regexp.MustCompile(`(?i)tuition\s*[:=]\s*TSh\s*[\d,]+`),
	regexp.MustCompile(`(?i)cost\s*[:=]\s*TSh\s*[\d,]+`),
	regexp.MustCompile(`(?i)per\s+year\s*[:=]\s*TSh\s*[\d,]+`),
	regexp.MustCompile(`(?i)per\s+semester\s*[:=]\s*TSh\s*[\d,]+`),
}

// ProgramFeePatterns capture a program phrase followed by an amount on one line.
var ProgramFeePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:bachelor|diploma|certificate|master).*?tsh\s*[\d,]+`),
	regexp.MustCompile(`(?i)(?:engineering|technology|science).*?tsh\s*[\d,]+`),
	regexp.MustCompile(`(?i)(?:computer|civil|electrical|mechanical).*?tsh\s*[\d,]+`),
}

// FeeLineTerms and FeePeriodTerms must both occur for a whole line to count as a fee line.
var (
	FeeLineTerms   = []string{"tsh", "fee", "cost", "tuition", "payment"}
	FeePeriodTerms = []string{"year", "semester", "month"}
)

// RequirementHeaders open a requirements block; RequirementMarkers select its lines.
var (
	RequirementHeaders = []string{"REQUIREMENT", "ENTRY"}
	RequirementMarkers = []string{"Form IV", "Form VI", "Certificate", "Grade", "Division", "Diploma"}
)

// ContactMarkers select contact lines.
var ContactMarkers = []string{"@", "+255", "Phone", "Email", "Address", "P.O. Box", "Tel"}

// ListPhrases flag enumeration questions regardless of classifier output.
var ListPhrases = []string{
	"what programs", "available programs", "name the programs",
	"what are the fees", "what fees", "what are the requirements", "what requirements",
}

// ListWords are whole words that flag an enumeration only next to a topic word.
var ListWords = []string{"all", "list"}

// ListTopicWords pair with "what" or a list word to flag enumeration questions.
var ListTopicWords = []string{"fee", "program", "course", "requirement"}

// SummaryTerms lift sentences into extractive summaries of any focus.
var SummaryTerms = []string{"university", "institute", "program", "course", "degree", "diploma"}

// FocusTerms lift sentences for a focused summary. Keys match summary types.
var FocusTerms = map[string][]string{
	"programs":  {"bachelor", "master", "diploma", "certificate", "engineering", "technology"},
	"fees":      {"fee", "cost", "tuition", "payment", "scholarship", "tsh"},
	"admission": {"admission", "requirement", "application", "qualify", "form"},
}

// AdmissionCategory buckets admission-related chunks; the first matching
// category wins and chunks matching none go to "general".
type AdmissionCategory struct {
	Name     string
	Keywords []string
}

var AdmissionCategories = []AdmissionCategory{
	{Name: "requirements", Keywords: []string{"requirement", "eligibility", "qualify"}},
	{Name: "fees", Keywords: []string{"fee", "cost", "tuition", "payment"}},
	{Name: "deadlines", Keywords: []string{"deadline", "date", "semester", "intake"}},
	{Name: "procedures", Keywords: []string{"application", "apply", "registration", "register"}},
	{Name: "contact", Keywords: []string{"contact", "phone", "email", "address"}},
}
